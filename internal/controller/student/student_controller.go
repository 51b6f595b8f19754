package student

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/service"
)

type StudentController struct {
	attemptSvc    service.AttemptService
	quizSvc       service.QuizService
	assignmentSvc service.AssignmentService
}

func NewStudentController(
	attemptSvc service.AttemptService,
	quizSvc service.QuizService,
	assignmentSvc service.AssignmentService,
) *StudentController {
	return &StudentController{
		attemptSvc:    attemptSvc,
		quizSvc:       quizSvc,
		assignmentSvc: assignmentSvc,
	}
}

func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid " + name + " format"})
		return 0, false
	}
	return uint(id), true
}

func resultsPath(attemptID uint) string {
	return fmt.Sprintf("/student/results/%d", attemptID)
}

// StartQuiz godoc
// @Summary Start (or resume) a quiz attempt
// @Description Opens an attempt for the caller; starting twice resumes the open attempt
// @Tags student
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.StartAttemptResponse
// @Failure 403 {object} dto.ErrorResponse "Quiz inactive, closed or attempt limit reached"
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /student/quiz/{quiz_id}/start [post]
func (ctrl *StudentController) StartQuiz(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	quizID, ok := parseID(c, "quiz_id")
	if !ok {
		return
	}

	resp, err := ctrl.attemptSvc.Start(identity.UserID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Quiz not found"})
		case errors.Is(err, service.ErrQuizInactive):
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Quiz is not active"})
		case errors.Is(err, service.ErrQuizClosed):
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "The due date for this quiz has passed"})
		case errors.Is(err, service.ErrAttemptLimit):
			c.JSON(http.StatusForbidden, dto.ErrorResponse{Error: "Maximum attempts reached for this quiz"})
		default:
			log.Error().Err(err).Uint("quizID", quizID).Msg("Failed to start attempt")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to start quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// TakeQuiz godoc
// @Summary Get the question set for an open attempt
// @Tags student
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.TakeQuizResponse
// @Success 303 "Redirect to results when the attempt is already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /quiz/take/{attempt_id} [get]
func (ctrl *StudentController) TakeQuiz(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	attemptID, ok := parseID(c, "attempt_id")
	if !ok {
		return
	}

	resp, err := ctrl.attemptSvc.Render(identity, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Attempt not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.Redirect(http.StatusSeeOther, "/user")
		case errors.Is(err, service.ErrAlreadyCompleted):
			c.Redirect(http.StatusSeeOther, resultsPath(attemptID))
		default:
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to render attempt")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SubmitQuiz godoc
// @Summary Submit answers and finalize an attempt
// @Description Grades at most once; a repeat submission redirects to results unchanged
// @Tags student
// @Accept json
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Param answers body dto.SubmitAttemptRequest true "Selected options keyed by question ID"
// @Success 200 {object} dto.ScoreSummary
// @Success 303 "Redirect to results when already completed"
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /quiz/submit/{attempt_id} [post]
func (ctrl *StudentController) SubmitQuiz(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	attemptID, ok := parseID(c, "attempt_id")
	if !ok {
		return
	}

	var req dto.SubmitAttemptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.attemptSvc.Submit(identity, attemptID, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Attempt not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.Redirect(http.StatusSeeOther, "/user")
		case errors.Is(err, service.ErrAlreadyCompleted):
			// Double submission is a no-op; the stored score is untouched.
			c.Redirect(http.StatusSeeOther, resultsPath(attemptID))
		default:
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to submit attempt")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to submit quiz"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Results godoc
// @Summary View a graded attempt
// @Tags student
// @Produce json
// @Param attempt_id path int true "Attempt ID"
// @Success 200 {object} dto.AttemptResultResponse
// @Failure 404 {object} dto.ErrorResponse "Attempt not found"
// @Router /student/results/{attempt_id} [get]
func (ctrl *StudentController) Results(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	attemptID, ok := parseID(c, "attempt_id")
	if !ok {
		return
	}

	resp, err := ctrl.attemptSvc.Results(identity, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Attempt not found"})
		case errors.Is(err, service.ErrUnauthorized):
			c.Redirect(http.StatusSeeOther, "/user")
		default:
			log.Error().Err(err).Uint("attemptID", attemptID).Msg("Failed to load results")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load results"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListQuizzes godoc
// @Summary List active quizzes available to take
// @Tags student
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Router /student/quizzes [get]
func (ctrl *StudentController) ListQuizzes(c *gin.Context) {
	resp, err := ctrl.quizSvc.ListActiveQuizzes()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list active quizzes")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list quizzes"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAssignments godoc
// @Summary List the caller's quiz assignments
// @Tags student
// @Produce json
// @Success 200 {array} dto.AssignmentResponse
// @Router /student/assignments [get]
func (ctrl *StudentController) ListAssignments(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	resp, err := ctrl.assignmentSvc.ListForStudent(identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list assignments")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list assignments"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListAttempts godoc
// @Summary List the caller's attempt history
// @Tags student
// @Produce json
// @Success 200 {array} dto.AttemptSummary
// @Router /student/attempts [get]
func (ctrl *StudentController) ListAttempts(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	resp, err := ctrl.attemptSvc.ListForStudent(identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list attempts")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list attempts"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Dashboard godoc
// @Summary Student dashboard
// @Description Assignments and attempt history for the student landing view
// @Tags student
// @Produce json
// @Param username path string true "Student username"
// @Success 200 {object} dto.StudentDashboardResponse
// @Router /userdash/{username} [get]
func (ctrl *StudentController) Dashboard(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)
	if c.Param("username") != identity.Username {
		c.Redirect(http.StatusSeeOther, "/user")
		return
	}

	assignments, err := ctrl.assignmentSvc.ListForStudent(identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard assignments")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	attempts, err := ctrl.attemptSvc.ListForStudent(identity.UserID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load dashboard attempts")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}

	c.JSON(http.StatusOK, dto.StudentDashboardResponse{
		Username:    identity.Username,
		Assignments: assignments,
		Attempts:    attempts,
	})
}
