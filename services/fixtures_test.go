package services

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/testutil"
	"gorm.io/gorm"
)

// marketplace is the shared scenario: users U1 and U2, managers M1 and M2,
// package P1 owned by M1, and U1's Pending booking B1 on P1 provided by M1.
type marketplace struct {
	db *gorm.DB
	u1 *models.Account
	u2 *models.Account
	m1 *models.Account
	m2 *models.Account
	p1 *models.Package
	b1 *models.Booking
}

func newMarketplace(t *testing.T) *marketplace {
	t.Helper()
	testutil.RequireTestEnvironment(t)

	db := testutil.NewTestDB(t)
	w := &marketplace{db: db}
	w.u1 = testutil.CreateAccount(t, db, "Uma", "u1@example.com", models.RoleUser)
	w.u2 = testutil.CreateAccount(t, db, "Ugo", "u2@example.com", models.RoleUser)
	w.m1 = testutil.CreateAccount(t, db, "Mira", "m1@example.com", models.RoleAdmin)
	w.m2 = testutil.CreateAccount(t, db, "Milo", "m2@example.com", models.RoleAdmin)
	w.p1 = testutil.CreatePackage(t, db, w.m1.ID, "Golden Hour Weddings")
	w.b1 = testutil.CreateBooking(t, db, w.u1.ID, w.p1.ID, testutil.UintPtr(w.m1.ID), models.BookingPending)
	return w
}

func identityOf(a *models.Account) Identity {
	return Identity{AccountID: a.ID, Role: a.Role}
}

func requireKind(t *testing.T, err error, kind ErrorKind) *Error {
	t.Helper()
	require.Error(t, err)
	var svcErr *Error
	require.ErrorAs(t, err, &svcErr)
	require.Equal(t, kind, svcErr.Kind, "unexpected error kind: %v", err)
	return svcErr
}

// createTestFileHeader builds a multipart file header for an "images" form field
func createTestFileHeader(t *testing.T, filename, contentType string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="images"; filename="`+filename+`"`)
	h.Set("Content-Type", contentType)
	part, err := writer.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content)) + 1024)
	require.NoError(t, err)
	require.Len(t, form.File["images"], 1)
	return form.File["images"][0]
}
