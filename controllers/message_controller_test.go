package controllers

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weddingbook/marketplace-api/middleware"
	"github.com/weddingbook/marketplace-api/models"
	"github.com/weddingbook/marketplace-api/testutil"
)

func messageRouter(caller *models.Account) *gin.Engine {
	router := setupTestRouter()
	auth := as(caller)
	router.POST("/messages", auth, middleware.RequireRole(models.RoleUser), SendMessage)
	router.GET("/messages/thread", auth, GetThread)
	router.POST("/messages/:id/reply", auth, ReplyMessage)
	router.DELETE("/messages/:id", auth, DeleteMessage)
	return router
}

func TestSendMessage(t *testing.T) {
	tests := []struct {
		name              string
		body              func(t *testing.T, w *marketplace) map[string]interface{}
		expectedStatus    int
		expectedCode      string
		expectedRecipient func(w *marketplace) uint
	}{
		{
			name: "About a package",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"package_id": w.p1.ID, "content": "Do you travel?"}
			},
			expectedStatus:    http.StatusCreated,
			expectedRecipient: func(w *marketplace) uint { return w.m1.ID },
		},
		{
			name: "About a booking",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"booking_id": w.b1.ID, "content": "Can we add 10 guests?"}
			},
			expectedStatus:    http.StatusCreated,
			expectedRecipient: func(w *marketplace) uint { return w.m1.ID },
		},
		{
			name: "Booking and its package",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"package_id": w.p1.ID, "booking_id": w.b1.ID, "content": "Menu question"}
			},
			expectedStatus:    http.StatusCreated,
			expectedRecipient: func(w *marketplace) uint { return w.m1.ID },
		},
		{
			name: "Booking with another package",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				p2 := testutil.CreatePackage(t, w.db, w.m2.ID, "Evergreen Venues")
				return map[string]interface{}{"package_id": p2.ID, "booking_id": w.b1.ID, "content": "Hello"}
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "BOOKING_PACKAGE_MISMATCH",
		},
		{
			name: "No reference",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"content": "Hello?"}
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "CANNOT_RESOLVE_RECIPIENT",
		},
		{
			name: "Blank content",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"package_id": w.p1.ID, "content": "   "}
			},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   "EMPTY_CONTENT",
		},
		{
			name: "Unknown package",
			body: func(t *testing.T, w *marketplace) map[string]interface{} {
				return map[string]interface{}{"package_id": 9999, "content": "Hello"}
			},
			expectedStatus: http.StatusNotFound,
			expectedCode:   "PACKAGE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newMarketplace(t)

			resp := doJSON(messageRouter(w.u1), http.MethodPost, "/messages", tt.body(t, w))

			if tt.expectedCode != "" {
				checkError(t, resp, tt.expectedStatus, tt.expectedCode)
				return
			}
			data := checkData(t, resp, tt.expectedStatus).(map[string]interface{})
			assert.Equal(t, float64(w.u1.ID), data["sender_id"])
			assert.Equal(t, float64(tt.expectedRecipient(w)), data["recipient_id"])
			assert.Equal(t, float64(w.p1.ID), data["package_id"])
		})
	}
}

func TestSendMessage_SomeoneElsesBooking(t *testing.T) {
	w := newMarketplace(t)

	resp := doJSON(messageRouter(w.u2), http.MethodPost, "/messages", map[string]interface{}{
		"booking_id": w.b1.ID,
		"content":    "Hi",
	})

	checkError(t, resp, http.StatusNotFound, "BOOKING_NOT_FOUND")
}

func TestSendMessage_ManagerForbidden(t *testing.T) {
	w := newMarketplace(t)

	resp := doJSON(messageRouter(w.m1), http.MethodPost, "/messages", map[string]interface{}{
		"package_id": w.p1.ID,
		"content":    "Hi",
	})

	checkError(t, resp, http.StatusForbidden, "FORBIDDEN")
}

func TestReplyMessage(t *testing.T) {
	w := newMarketplace(t)
	original := testutil.CreateMessage(t, w.db, w.u1.ID, w.m1.ID, testutil.UintPtr(w.p1.ID), testutil.UintPtr(w.b1.ID), "Is the date free?")

	t.Run("Recipient replies", func(t *testing.T) {
		resp := doJSON(messageRouter(w.m1), http.MethodPost, withID("/messages/", original.ID)+"/reply", map[string]string{"content": "Yes it is"})

		data := checkData(t, resp, http.StatusCreated).(map[string]interface{})
		assert.Equal(t, float64(w.m1.ID), data["sender_id"])
		assert.Equal(t, float64(w.u1.ID), data["recipient_id"])
		assert.Equal(t, float64(w.b1.ID), data["booking_id"])
		assert.Equal(t, float64(w.p1.ID), data["package_id"])
	})

	t.Run("Sender follows up", func(t *testing.T) {
		resp := doJSON(messageRouter(w.u1), http.MethodPost, withID("/messages/", original.ID)+"/reply", map[string]string{"content": "Any news?"})

		data := checkData(t, resp, http.StatusCreated).(map[string]interface{})
		assert.Equal(t, float64(w.m1.ID), data["recipient_id"])
	})

	t.Run("Outsider", func(t *testing.T) {
		resp := doJSON(messageRouter(w.m2), http.MethodPost, withID("/messages/", original.ID)+"/reply", map[string]string{"content": "Hello"})
		checkError(t, resp, http.StatusForbidden, "FORBIDDEN")
	})

	t.Run("Blank content", func(t *testing.T) {
		resp := doJSON(messageRouter(w.m1), http.MethodPost, withID("/messages/", original.ID)+"/reply", map[string]string{"content": ""})
		checkError(t, resp, http.StatusBadRequest, "EMPTY_CONTENT")
	})

	t.Run("Unknown message", func(t *testing.T) {
		resp := doJSON(messageRouter(w.m1), http.MethodPost, "/messages/9999/reply", map[string]string{"content": "Hello"})
		checkError(t, resp, http.StatusNotFound, "MESSAGE_NOT_FOUND")
	})
}

func TestDeleteMessage(t *testing.T) {
	w := newMarketplace(t)
	msg := testutil.CreateMessage(t, w.db, w.u1.ID, w.m1.ID, testutil.UintPtr(w.p1.ID), nil, "Typo")

	t.Run("Recipient cannot delete", func(t *testing.T) {
		resp := doJSON(messageRouter(w.m1), http.MethodDelete, withID("/messages/", msg.ID), nil)
		checkError(t, resp, http.StatusForbidden, "FORBIDDEN")
	})

	t.Run("Sender deletes", func(t *testing.T) {
		resp := doJSON(messageRouter(w.u1), http.MethodDelete, withID("/messages/", msg.ID), nil)
		assert.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

		var count int64
		w.db.Model(&models.Message{}).Where("id = ?", msg.ID).Count(&count)
		assert.Zero(t, count)
	})

	t.Run("Already deleted", func(t *testing.T) {
		resp := doJSON(messageRouter(w.u1), http.MethodDelete, withID("/messages/", msg.ID), nil)
		checkError(t, resp, http.StatusNotFound, "MESSAGE_NOT_FOUND")
	})
}

func TestGetThread(t *testing.T) {
	w := newMarketplace(t)
	p2 := testutil.CreatePackage(t, w.db, w.m2.ID, "Evergreen Venues")
	b2 := testutil.CreateBooking(t, w.db, w.u1.ID, p2.ID, testutil.UintPtr(w.m2.ID), models.BookingPending)
	testutil.CreateMessage(t, w.db, w.u1.ID, w.m1.ID, testutil.UintPtr(w.p1.ID), testutil.UintPtr(w.b1.ID), "About golden hour")
	testutil.CreateMessage(t, w.db, w.u1.ID, w.m2.ID, testutil.UintPtr(p2.ID), testutil.UintPtr(b2.ID), "About evergreen")

	thread := func(t *testing.T, caller *models.Account, contact string) map[string]interface{} {
		t.Helper()
		resp := doJSON(messageRouter(caller), http.MethodGet, "/messages/thread?contact="+contact, nil)
		return checkData(t, resp, http.StatusOK).(map[string]interface{})
	}
	contents := func(data map[string]interface{}) []string {
		var out []string
		for _, m := range data["messages"].([]interface{}) {
			out = append(out, m.(map[string]interface{})["content"].(string))
		}
		return out
	}

	t.Run("Defaults to first contact", func(t *testing.T) {
		data := thread(t, w.u1, "")
		require.Len(t, data["contacts"].([]interface{}), 2)
		selected := data["selected"].(map[string]interface{})
		assert.Equal(t, "Golden Hour Weddings", selected["package_name"])
		assert.Equal(t, "Mira", selected["counterparty_name"])
		assert.Equal(t, []string{"About golden hour"}, contents(data))
	})

	t.Run("Selected contact", func(t *testing.T) {
		data := thread(t, w.u1, strconv.FormatUint(uint64(b2.ID), 10))
		selected := data["selected"].(map[string]interface{})
		assert.Equal(t, "Milo", selected["counterparty_name"])
		assert.Equal(t, []string{"About evergreen"}, contents(data))
	})

	t.Run("Manager sees the user", func(t *testing.T) {
		data := thread(t, w.m2, "")
		contacts := data["contacts"].([]interface{})
		require.Len(t, contacts, 1)
		assert.Equal(t, "Uma", contacts[0].(map[string]interface{})["counterparty_name"])
		assert.Equal(t, []string{"About evergreen"}, contents(data))
	})

	t.Run("No contacts", func(t *testing.T) {
		data := thread(t, w.u2, "")
		assert.Empty(t, data["contacts"])
		assert.Nil(t, data["selected"])
		assert.Empty(t, data["messages"])
	})
}
