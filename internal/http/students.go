package http

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/v2/bson"

	"schoolhub/internal/crypto"
	"schoolhub/internal/model"
)

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{"role": model.RoleStudent}
	if department := r.URL.Query().Get("department"); department != "" {
		filter["department"] = department
	}
	if raw := r.URL.Query().Get("is_active"); raw != "" {
		if active, err := strconv.ParseBool(raw); err == nil {
			filter["is_active"] = active
		}
	}

	skip, limit := parsePage(r)
	students, err := s.store.ListUsers(r.Context(), filter, skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, students)
}

// handleCreateStudent pins the role to student regardless of the payload.
func (s *Server) handleCreateStudent(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_password")
		return
	}

	studentID, err := s.store.CreateUser(r.Context(), model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         model.RoleStudent,
		Department:   req.Department,
		ContactInfo:  req.ContactInfo,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"student_id": studentID})
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.decodePartial(w, r)
	if !ok {
		return
	}
	err := s.store.UpdateUser(r.Context(), chi.URLParam(r, "studentId"), fields, bson.M{"role": model.RoleStudent})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "student updated"})
}

func (s *Server) handleDeleteStudent(w http.ResponseWriter, r *http.Request) {
	archive := true
	if raw := r.URL.Query().Get("archive"); raw != "" {
		if parsed, err := strconv.ParseBool(raw); err == nil {
			archive = parsed
		}
	}

	err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "studentId"), archive, bson.M{"role": model.RoleStudent})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "student deleted"})
}

type employeeRequest struct {
	registerRequest
	Role model.Role `json:"role"`
}

func (s *Server) handleListEmployees(w http.ResponseWriter, r *http.Request) {
	filter := bson.M{}
	if role := r.URL.Query().Get("role"); role != "" {
		filter["role"] = role
	}

	skip, limit := parsePage(r)
	employees, err := s.store.ListUsers(r.Context(), filter, skip, limit)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, employees)
}

func (s *Server) handleCreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req employeeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_password")
		return
	}

	employeeID, err := s.store.CreateUser(r.Context(), model.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         req.Role,
		Department:   req.Department,
		ContactInfo:  req.ContactInfo,
		Salary:       req.Salary,
	})
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"employee_id": employeeID})
}

func (s *Server) handleUpdateEmployee(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.decodePartial(w, r)
	if !ok {
		return
	}
	err := s.store.UpdateUser(r.Context(), chi.URLParam(r, "employeeId"), fields, nil)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "employee updated"})
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	fields, ok := s.decodePartial(w, r)
	if !ok {
		return
	}
	err := s.store.UpdateUser(r.Context(), chi.URLParam(r, "userId"), fields, nil)
	if err != nil {
		s.writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "profile updated"})
}

// decodePartial reads a partial-update body. Merges are otherwise unchecked,
// but a plaintext password never reaches the store.
func (s *Server) decodePartial(w http.ResponseWriter, r *http.Request) (bson.M, bool) {
	fields := bson.M{}
	if err := decodeJSON(r, &fields); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request")
		return nil, false
	}
	if len(fields) == 0 {
		writeError(w, http.StatusBadRequest, "empty_update")
		return nil, false
	}
	if raw, ok := fields["password"]; ok {
		plain, _ := raw.(string)
		hash, err := crypto.HashPassword(plain)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_password")
			return nil, false
		}
		fields["password"] = hash
	}
	return fields, true
}
