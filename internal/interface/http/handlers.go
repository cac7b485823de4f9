package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/treebjj/academy-hub/internal/domain/academy"
	"github.com/treebjj/academy-hub/internal/domain/attendance"
	"github.com/treebjj/academy-hub/internal/domain/shared"
	"github.com/treebjj/academy-hub/internal/domain/student"
	"github.com/treebjj/academy-hub/internal/domain/user"
	"github.com/treebjj/academy-hub/internal/engine"
	syncadapter "github.com/treebjj/academy-hub/internal/infrastructure/sync"
	"github.com/treebjj/academy-hub/pkg/logger"
)

// maxBodyBytes caps request bodies; a full snapshot import is the largest.
const maxBodyBytes = 4 << 20

// decodeBody decodes a JSON request body into dst.
func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Failed to read request body")
		return false
	}
	if err := json.Unmarshal(body, dst); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_json", "Request body is not valid JSON")
		return false
	}
	return true
}

// writeDomainError maps engine and domain errors onto HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrStudentNotFound):
		writeJSONError(w, http.StatusNotFound, "student_not_found", "Student not found")
	case errors.Is(err, shared.ErrFinancialNotFound):
		writeJSONError(w, http.StatusNotFound, "financial_not_found", "Financial record not found")
	case errors.Is(err, user.ErrInvalidCredentials):
		writeJSONError(w, http.StatusUnauthorized, "invalid_credentials", "Invalid email or password")
	default:
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "ok",
		"uptime": s.Uptime().String(),
	})
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		writeJSONError(w, http.StatusNotFound, "not_found", "Unknown endpoint")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"service": "academy-hub",
		"api":     "/api/v1",
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// ROSTER
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListStudents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Students())
}

func (s *Server) handleGetStudent(w http.ResponseWriter, r *http.Request) {
	found, err := s.deps.Engine.StudentByID(r.PathValue("id"))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (s *Server) handleEnrollStudent(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name           string         `json:"name"`
		BirthDate      string         `json:"birthDate"`
		CPF            string         `json:"cpf"`
		Phone          string         `json:"phone"`
		Email          string         `json:"email"`
		Address        string         `json:"address"`
		PlanID         string         `json:"planId"`
		EnrollmentDate string         `json:"enrollmentDate"`
		Status         student.Status `json:"status"`
		PhotoURL       string         `json:"photoUrl"`
		Belt           student.Belt   `json:"belt"`
		Stripes        int            `json:"stripes"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	enrolled, err := s.deps.Engine.EnrollStudent(engine.EnrollStudentParams{
		Name:           req.Name,
		BirthDate:      req.BirthDate,
		CPF:            req.CPF,
		Phone:          req.Phone,
		Email:          req.Email,
		Address:        req.Address,
		PlanID:         req.PlanID,
		EnrollmentDate: req.EnrollmentDate,
		Status:         req.Status,
		PhotoURL:       req.PhotoURL,
		Belt:           req.Belt,
		Stripes:        req.Stripes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, enrolled)
}

func (s *Server) handleUpdateStudent(w http.ResponseWriter, r *http.Request) {
	var patch student.Patch
	if !decodeBody(w, r, &patch) {
		return
	}

	id := r.PathValue("id")
	if err := s.deps.Engine.UpdateStudent(id, patch); err != nil {
		writeDomainError(w, err)
		return
	}

	updated, err := s.deps.Engine.StudentByID(id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleRemoveStudent(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Engine.RemoveStudent(r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Server) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ClassID string            `json:"classId"`
		Method  attendance.Method `json:"method"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := s.deps.Engine.RecordAttendance(r.PathValue("id"), req.ClassID, req.Method)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

// ══════════════════════════════════════════════════════════════════════════════
// ATTENDANCE
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListAttendance(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Attendance())
}

// ══════════════════════════════════════════════════════════════════════════════
// BILLING
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListFinancials(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Financials())
}

func (s *Server) handleAddFinancial(w http.ResponseWriter, r *http.Request) {
	var req engine.AddFinancialParams
	if !decodeBody(w, r, &req) {
		return
	}

	record, err := s.deps.Engine.AddFinancial(req)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, record)
}

func (s *Server) handleDeleteFinancial(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Engine.DeleteFinancial(r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Server) handleMarkFinancialPaid(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.Engine.MarkFinancialPaid(r.PathValue("id")); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"paid": true})
}

// handleFinancialSummary reports totals, optionally scoped to ?month=YYYY-MM.
func (s *Server) handleFinancialSummary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.FinancialSummary(r.URL.Query().Get("month")))
}

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION COLLECTIONS
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListPlans(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Plans())
}

func (s *Server) handleReplacePlans(w http.ResponseWriter, r *http.Request) {
	var plans []*academy.Plan
	if !decodeBody(w, r, &plans) {
		return
	}
	s.deps.Engine.ReplacePlans(plans)
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleListSchedules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Schedules())
}

func (s *Server) handleReplaceSchedules(w http.ResponseWriter, r *http.Request) {
	var schedules []*academy.ClassSchedule
	if !decodeBody(w, r, &schedules) {
		return
	}
	s.deps.Engine.ReplaceSchedules(schedules)
	writeJSON(w, http.StatusOK, schedules)
}

func (s *Server) handleListGraduationRules(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.GraduationRules())
}

func (s *Server) handleReplaceGraduationRules(w http.ResponseWriter, r *http.Request) {
	var rules []student.GraduationRule
	if !decodeBody(w, r, &rules) {
		return
	}
	s.deps.Engine.ReplaceGraduationRules(rules)
	writeJSON(w, http.StatusOK, rules)
}

func (s *Server) handleGraduationProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.GraduationProgress())
}

// ══════════════════════════════════════════════════════════════════════════════
// DERIVED VIEWS AND CATALOG
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleListNotifications(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Notifications())
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.deps.Engine.Products())
}

// ══════════════════════════════════════════════════════════════════════════════
// SNAPSHOT
// ══════════════════════════════════════════════════════════════════════════════

// handleExportSnapshot returns the raw snapshot document, not the JSON
// envelope, so the result can be saved as a backup file and imported as-is.
func (s *Server) handleExportSnapshot(w http.ResponseWriter, r *http.Request) {
	data, err := s.deps.Engine.ExportSnapshot()
	if err != nil {
		writeJSONError(w, http.StatusInternalServerError, "export_failed", "Failed to serialize snapshot")
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="academy-backup.json"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

func (s *Server) handleImportSnapshot(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "bad_request", "Failed to read request body")
		return
	}

	if !s.deps.Engine.ImportSnapshot(body) {
		writeJSONError(w, http.StatusBadRequest, "import_rejected", "Snapshot document is malformed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"imported": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// SESSION
// ══════════════════════════════════════════════════════════════════════════════

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	current := s.deps.Engine.CurrentUser()
	if current == nil {
		writeJSONError(w, http.StatusUnauthorized, "no_session", "No active session")
		return
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	logged, err := s.deps.Engine.Login(req.Email, req.Password)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logged)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.deps.Engine.Logout()
	writeJSON(w, http.StatusOK, map[string]bool{"loggedOut": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// CLOUD SYNC
// ══════════════════════════════════════════════════════════════════════════════

// syncAdapter returns the adapter or reports 503 when sync is not wired.
func (s *Server) syncAdapter(w http.ResponseWriter) *syncadapter.Adapter {
	if s.deps.Sync == nil {
		writeJSONError(w, http.StatusServiceUnavailable, "sync_disabled", "Cloud sync is not configured")
		return nil
	}
	return s.deps.Sync
}

func (s *Server) handleSyncStatus(w http.ResponseWriter, r *http.Request) {
	adapter := s.syncAdapter(w)
	if adapter == nil {
		return
	}
	writeJSON(w, http.StatusOK, adapter.Status())
}

func (s *Server) handleSyncProvision(w http.ResponseWriter, r *http.Request) {
	adapter := s.syncAdapter(w)
	if adapter == nil {
		return
	}

	id, err := adapter.Provision(r.Context())
	if err != nil {
		s.logger.Error("sync provisioning failed", logger.Err(err))
		writeJSONError(w, http.StatusBadGateway, "provision_failed", "Could not create the remote document")
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"syncId": id})
}

func (s *Server) handleSyncAdopt(w http.ResponseWriter, r *http.Request) {
	adapter := s.syncAdapter(w)
	if adapter == nil {
		return
	}

	var req struct {
		SyncID string `json:"syncId"`
	}
	if !decodeBody(w, r, &req) {
		return
	}

	if err := adapter.AdoptIdentifier(r.Context(), req.SyncID); err != nil {
		if errors.Is(err, syncadapter.ErrEmptySyncID) {
			writeJSONError(w, http.StatusBadRequest, "empty_sync_id", "Identifier cannot be empty")
			return
		}
		// The identifier was adopted; only the immediate pull failed.
		s.logger.Warn("pull after adoption failed", logger.Err(err))
	}
	writeJSON(w, http.StatusOK, adapter.Status())
}

func (s *Server) handleSyncPull(w http.ResponseWriter, r *http.Request) {
	adapter := s.syncAdapter(w)
	if adapter == nil {
		return
	}

	if err := adapter.Pull(r.Context()); err != nil {
		if errors.Is(err, syncadapter.ErrNoSyncID) {
			writeJSONError(w, http.StatusConflict, "no_sync_id", "No sync identifier configured")
			return
		}
		writeJSONError(w, http.StatusBadGateway, "pull_failed", "Could not fetch the remote document")
		return
	}
	writeJSON(w, http.StatusOK, adapter.Status())
}

func (s *Server) handleSyncForget(w http.ResponseWriter, r *http.Request) {
	adapter := s.syncAdapter(w)
	if adapter == nil {
		return
	}

	if err := adapter.Forget(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "forget_failed", "Could not clear the sync identifier")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"forgotten": true})
}

// ══════════════════════════════════════════════════════════════════════════════
// SYSTEM
// ══════════════════════════════════════════════════════════════════════════════

// handleSystemReset wipes all slots and reseeds the defaults. Destructive,
// so it demands an explicit confirmation in the body.
func (s *Server) handleSystemReset(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Confirm bool `json:"confirm"`
	}
	if !decodeBody(w, r, &req) {
		return
	}
	if !req.Confirm {
		writeJSONError(w, http.StatusBadRequest, "confirmation_required", `Send {"confirm": true} to reset all data`)
		return
	}

	if err := s.deps.Engine.Reset(); err != nil {
		writeJSONError(w, http.StatusInternalServerError, "reset_failed", "Failed to reset application data")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"reset": true})
}
