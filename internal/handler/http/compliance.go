package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/attendance-compliance/internal/domain/alarm"
	"github.com/cmlabs-hris/attendance-compliance/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/logger"
	"github.com/cmlabs-hris/attendance-compliance/internal/pkg/validator"
)

type ComplianceHandler interface {
	Evaluate(w http.ResponseWriter, r *http.Request)
	ListAlarms(w http.ResponseWriter, r *http.Request)
}

type complianceHandlerImpl struct {
	complianceService alarm.ComplianceService
}

func NewComplianceHandler(complianceService alarm.ComplianceService) ComplianceHandler {
	return &complianceHandlerImpl{complianceService: complianceService}
}

// Evaluate implements ComplianceHandler.
func (h *complianceHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req alarm.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.WarnKV(r.Context(), "evaluate decode error", "error", err.Error())
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	result, err := h.complianceService.Evaluate(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Compliance evaluated"
	if req.DryRun {
		message = "Compliance evaluated (dry run)"
	}
	response.SuccessWithMessage(w, message, result)
}

// ListAlarms implements ComplianceHandler.
func (h *complianceHandlerImpl) ListAlarms(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := alarm.AlarmFilter{SortOrder: query.Get("sort_order")}

	if employeeID := query.Get("employee_id"); employeeID != "" {
		filter.EmployeeID = &employeeID
	}
	if alarmType := query.Get("type"); alarmType != "" {
		filter.Type = &alarmType
	}
	if startDate := query.Get("start_date"); startDate != "" {
		filter.StartDate = &startDate
	}
	if endDate := query.Get("end_date"); endDate != "" {
		filter.EndDate = &endDate
	}

	var errs validator.ValidationErrors
	filter.Page = intQueryParam(query.Get("page"), "page", &errs)
	filter.Limit = intQueryParam(query.Get("limit"), "limit", &errs)
	if len(errs) > 0 {
		response.HandleError(w, errs)
		return
	}

	result, err := h.complianceService.ListAlarms(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Paginated(w, result.Alarms, result.Page, result.Limit, result.TotalCount, result.TotalPages, result.Showing)
}

// intQueryParam parses an optional integer parameter; empty means 0 so the
// filter applies its default.
func intQueryParam(value, field string, errs *validator.ValidationErrors) int {
	if value == "" {
		return 0
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		*errs = append(*errs, validator.ValidationError{Field: field, Message: field + " must be a number"})
		return 0
	}
	return n
}
