package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/model"
)

// Inventory

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	items, err := s.store.ListInventory(r.Context(), skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateInventoryItem(w http.ResponseWriter, r *http.Request) {
	var item model.InventoryItem
	if err := decodeJSON(r, &item); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if item.Name == "" {
		writeError(w, http.StatusBadRequest, "missing_name")
		return
	}

	itemID, err := s.store.CreateInventoryItem(r.Context(), item)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"item_id": itemID})
}

func (s *Server) handleUpdateInventoryItem(w http.ResponseWriter, r *http.Request) {
	s.updateResource(w, r, chi.URLParam(r, "itemId"), s.store.UpdateInventoryItem)
}

func (s *Server) handleDeleteInventoryItem(w http.ResponseWriter, r *http.Request) {
	s.deleteResource(w, r, chi.URLParam(r, "itemId"), s.store.DeleteInventoryItem)
}

// Books

func (s *Server) handleListBooks(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	books, err := s.store.ListBooks(r.Context(), skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, books)
}

func (s *Server) handleCreateBook(w http.ResponseWriter, r *http.Request) {
	var book model.Book
	if err := decodeJSON(r, &book); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if book.Title == "" {
		writeError(w, http.StatusBadRequest, "missing_title")
		return
	}

	bookID, err := s.store.CreateBook(r.Context(), book)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"book_id": bookID})
}

func (s *Server) handleUpdateBook(w http.ResponseWriter, r *http.Request) {
	s.updateResource(w, r, chi.URLParam(r, "bookId"), s.store.UpdateBook)
}

func (s *Server) handleDeleteBook(w http.ResponseWriter, r *http.Request) {
	s.deleteResource(w, r, chi.URLParam(r, "bookId"), s.store.DeleteBook)
}

// Buses

func (s *Server) handleListBuses(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	buses, err := s.store.ListBuses(r.Context(), skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, buses)
}

func (s *Server) handleCreateBus(w http.ResponseWriter, r *http.Request) {
	var bus model.Bus
	if err := decodeJSON(r, &bus); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if bus.Number == "" {
		writeError(w, http.StatusBadRequest, "missing_number")
		return
	}
	if bus.Status == "" {
		bus.Status = "active"
	}

	busID, err := s.store.CreateBus(r.Context(), bus)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"bus_id": busID})
}

func (s *Server) handleUpdateBus(w http.ResponseWriter, r *http.Request) {
	s.updateResource(w, r, chi.URLParam(r, "busId"), s.store.UpdateBus)
}

func (s *Server) handleDeleteBus(w http.ResponseWriter, r *http.Request) {
	s.deleteResource(w, r, chi.URLParam(r, "busId"), s.store.DeleteBus)
}

// Courses

func (s *Server) handleListCourses(w http.ResponseWriter, r *http.Request) {
	skip, limit := parsePage(r)
	courses, err := s.store.ListCourses(r.Context(), skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, courses)
}

func (s *Server) handleCreateCourse(w http.ResponseWriter, r *http.Request) {
	var course model.Course
	if err := decodeJSON(r, &course); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if course.Name == "" || course.Code == "" {
		writeError(w, http.StatusBadRequest, "missing_name_or_code")
		return
	}

	courseID, err := s.store.CreateCourse(r.Context(), course)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"course_id": courseID})
}

func (s *Server) handleUpdateCourse(w http.ResponseWriter, r *http.Request) {
	s.updateResource(w, r, chi.URLParam(r, "courseId"), s.store.UpdateCourse)
}

func (s *Server) handleDeleteCourse(w http.ResponseWriter, r *http.Request) {
	s.deleteResource(w, r, chi.URLParam(r, "courseId"), s.store.DeleteCourse)
}

// Messaging

type messageRequest struct {
	SenderID     string   `json:"sender_id"`
	Recipients   []string `json:"recipients"`
	Subject      string   `json:"subject"`
	Body         string   `json:"body"`
	Channel      string   `json:"channel"`
	TemplateUsed string   `json:"template_used"`
}

// handleSendMessage persists the message record; gateway delivery is outside
// this service.
func (s *Server) handleSendMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	senderID, err := bson.ObjectIDFromHex(req.SenderID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_sender_id")
		return
	}
	recipients := make([]bson.ObjectID, 0, len(req.Recipients))
	for _, raw := range req.Recipients {
		recipient, err := bson.ObjectIDFromHex(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_recipient_id")
			return
		}
		recipients = append(recipients, recipient)
	}

	messageID, err := s.store.InsertMessage(r.Context(), model.Message{
		SenderID:     senderID,
		Recipients:   recipients,
		Subject:      req.Subject,
		Body:         req.Body,
		Channel:      req.Channel,
		SentAt:       time.Now().UTC(),
		Status:       "sent",
		TemplateUsed: req.TemplateUsed,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message_id": messageID})
}

// System logs and settings

type systemLogRequest struct {
	Severity  string `json:"severity"`
	Component string `json:"component"`
	Message   string `json:"message"`
	UserID    string `json:"user_id"`
	Timestamp string `json:"timestamp"`
}

func (s *Server) handleSystemLog(w http.ResponseWriter, r *http.Request) {
	var req systemLogRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	entry := model.SystemLog{
		Timestamp: time.Now().UTC(),
		Severity:  req.Severity,
		Component: req.Component,
		Message:   req.Message,
	}
	if req.Timestamp != "" {
		parsed, err := time.Parse(time.RFC3339, req.Timestamp)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_timestamp")
			return
		}
		entry.Timestamp = parsed
	}
	if req.UserID != "" {
		userID, err := bson.ObjectIDFromHex(req.UserID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_user_id")
			return
		}
		entry.UserID = userID
	}

	logID, err := s.store.InsertSystemLog(r.Context(), entry)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"log_id": logID})
}

func (s *Server) handleGetSettings(w http.ResponseWriter, r *http.Request) {
	settings, err := s.store.GetSettings(r.Context())
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, settings)
}

func (s *Server) handleUpdateSettings(w http.ResponseWriter, r *http.Request) {
	fields := bson.M{}
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "empty_update")
		return
	}

	if err := s.store.UpsertSettings(r.Context(), fields); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Shared partial-update and delete plumbing for the flat resources.

func (s *Server) updateResource(w http.ResponseWriter, r *http.Request, id string, update func(ctx context.Context, id string, fields bson.M) error) {
	fields := bson.M{}
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "empty_update")
		return
	}

	if err := update(r.Context(), id, fields); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (s *Server) deleteResource(w http.ResponseWriter, r *http.Request, id string, remove func(ctx context.Context, id string) error) {
	if err := remove(r.Context(), id); err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"success": true})
}
