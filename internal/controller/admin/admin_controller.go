package admin

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"quizmaster/internal/auth"
	"quizmaster/internal/dto"
	"quizmaster/internal/service"
)

// AdminController carries every content-management handler: subjects,
// chapters, questions, quizzes, assignments and AI drafting.
type AdminController struct {
	contentSvc    service.ContentService
	quizSvc       service.QuizService
	assignmentSvc service.AssignmentService
	drafterSvc    service.QuestionDrafterService
}

func NewAdminController(
	contentSvc service.ContentService,
	quizSvc service.QuizService,
	assignmentSvc service.AssignmentService,
	drafterSvc service.QuestionDrafterService,
) *AdminController {
	return &AdminController{
		contentSvc:    contentSvc,
		quizSvc:       quizSvc,
		assignmentSvc: assignmentSvc,
		drafterSvc:    drafterSvc,
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

// Dashboard godoc
// @Summary Admin dashboard
// @Description Subjects with chapter counts for the admin landing view
// @Tags admin
// @Produce json
// @Param username path string true "Admin username"
// @Success 200 {object} dto.AdminDashboardResponse
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /admin/{username} [get]
func (ctrl *AdminController) Dashboard(c *gin.Context) {
	resp, err := ctrl.contentSvc.Dashboard(c.Param("username"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "User not found!"})
			return
		}
		log.Error().Err(err).Msg("Failed to build admin dashboard")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load dashboard"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ListStudents godoc
// @Summary List all student accounts
// @Tags admin
// @Produce json
// @Success 200 {array} dto.UserResponse
// @Router /students [get]
func (ctrl *AdminController) ListStudents(c *gin.Context) {
	resp, err := ctrl.contentSvc.ListStudents()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list students")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list students"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AddSubject godoc
// @Summary Create a subject
// @Tags admin
// @Accept json
// @Produce json
// @Param subject body dto.SubjectCreateRequest true "Subject data"
// @Success 201 {object} dto.SubjectResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /addsubject [post]
func (ctrl *AdminController) AddSubject(c *gin.Context) {
	var req dto.SubjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.CreateSubject(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create subject")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create subject: " + err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// GetSubject godoc
// @Summary Get a subject with its chapters
// @Tags admin
// @Produce json
// @Param subject_id path int true "Subject ID"
// @Success 200 {object} dto.SubjectResponse
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{subject_id} [get]
func (ctrl *AdminController) GetSubject(c *gin.Context) {
	id, ok := parseID(c, "subject_id")
	if !ok {
		return
	}
	resp, err := ctrl.contentSvc.GetSubjectWithChapters(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subject not found!"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load subject"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditSubject godoc
// @Summary Update a subject
// @Tags admin
// @Accept json
// @Produce json
// @Param subject_id path int true "Subject ID"
// @Param subject body dto.SubjectCreateRequest true "Subject data"
// @Success 200 {object} dto.SubjectResponse
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /subjects/{subject_id} [put]
func (ctrl *AdminController) EditSubject(c *gin.Context) {
	id, ok := parseID(c, "subject_id")
	if !ok {
		return
	}
	var req dto.SubjectCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.UpdateSubject(id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subject not found!"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update subject"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteSubject godoc
// @Summary Delete a subject with its chapters and questions
// @Tags admin
// @Param subject_id path int true "Subject ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /delete_subject/{subject_id} [delete]
func (ctrl *AdminController) DeleteSubject(c *gin.Context) {
	id, ok := parseID(c, "subject_id")
	if !ok {
		return
	}
	if err := ctrl.contentSvc.DeleteSubject(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subject not found!"})
			return
		}
		log.Error().Err(err).Uint("subjectID", id).Msg("Failed to delete subject")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete subject"})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddChapter godoc
// @Summary Create a chapter under a subject
// @Tags admin
// @Accept json
// @Produce json
// @Param subject_id path int true "Subject ID"
// @Param chapter body dto.ChapterCreateRequest true "Chapter data"
// @Success 201 {object} dto.ChapterResponse
// @Failure 404 {object} dto.ErrorResponse "Subject not found"
// @Router /addchapter/{subject_id} [post]
func (ctrl *AdminController) AddChapter(c *gin.Context) {
	id, ok := parseID(c, "subject_id")
	if !ok {
		return
	}
	var req dto.ChapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.CreateChapter(id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Subject not found!"})
			return
		}
		log.Error().Err(err).Msg("Failed to create chapter")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create chapter"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// EditChapter godoc
// @Summary Update a chapter
// @Tags admin
// @Accept json
// @Produce json
// @Param chapter_id path int true "Chapter ID"
// @Param chapter body dto.ChapterCreateRequest true "Chapter data"
// @Success 200 {object} dto.ChapterResponse
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /edit_chapter/{chapter_id} [put]
func (ctrl *AdminController) EditChapter(c *gin.Context) {
	id, ok := parseID(c, "chapter_id")
	if !ok {
		return
	}
	var req dto.ChapterCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.UpdateChapter(id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found!"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update chapter"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteChapter godoc
// @Summary Delete a chapter and its questions
// @Tags admin
// @Param chapter_id path int true "Chapter ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /delete_chapter/{chapter_id} [delete]
func (ctrl *AdminController) DeleteChapter(c *gin.Context) {
	id, ok := parseID(c, "chapter_id")
	if !ok {
		return
	}
	if err := ctrl.contentSvc.DeleteChapter(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found!"})
			return
		}
		log.Error().Err(err).Uint("chapterID", id).Msg("Failed to delete chapter")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete chapter"})
		return
	}
	c.Status(http.StatusNoContent)
}

// AddQuestion godoc
// @Summary Create a question in a chapter
// @Tags admin
// @Accept json
// @Produce json
// @Param chapter_id path int true "Chapter ID"
// @Param question body dto.QuestionCreateRequest true "Question data"
// @Success 201 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /addquestion/{chapter_id} [post]
func (ctrl *AdminController) AddQuestion(c *gin.Context) {
	id, ok := parseID(c, "chapter_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.CreateQuestion(id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found"})
			return
		}
		log.Error().Err(err).Msg("Failed to create question")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create question"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListQuestions godoc
// @Summary List a chapter's questions
// @Tags admin
// @Produce json
// @Param chapter_id path int true "Chapter ID"
// @Success 200 {array} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /chapters/{chapter_id}/questions [get]
func (ctrl *AdminController) ListQuestions(c *gin.Context) {
	id, ok := parseID(c, "chapter_id")
	if !ok {
		return
	}
	resp, err := ctrl.contentSvc.ListChapterQuestions(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list questions"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// EditQuestion godoc
// @Summary Update a question
// @Tags admin
// @Accept json
// @Produce json
// @Param question_id path int true "Question ID"
// @Param question body dto.QuestionCreateRequest true "Question data"
// @Success 200 {object} dto.QuestionResponse
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id} [put]
func (ctrl *AdminController) EditQuestion(c *gin.Context) {
	id, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	var req dto.QuestionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.contentSvc.UpdateQuestion(id, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update question"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DeleteQuestion godoc
// @Summary Delete a question
// @Tags admin
// @Param question_id path int true "Question ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Question not found"
// @Router /questions/{question_id} [delete]
func (ctrl *AdminController) DeleteQuestion(c *gin.Context) {
	id, ok := parseID(c, "question_id")
	if !ok {
		return
	}
	if err := ctrl.contentSvc.DeleteQuestion(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Question not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to delete question"})
		return
	}
	c.Status(http.StatusNoContent)
}

// NewQuiz godoc
// @Summary Create a quiz for a chapter
// @Tags admin
// @Accept json
// @Produce json
// @Param quiz body dto.QuizCreateRequest true "Quiz data"
// @Success 201 {object} dto.QuizResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Router /newquiz [post]
func (ctrl *AdminController) NewQuiz(c *gin.Context) {
	var req dto.QuizCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "All fields are required! " + err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.CreateQuiz(req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found"})
			return
		}
		log.Error().Err(err).Msg("Failed to create quiz")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListQuizzes godoc
// @Summary List all quizzes
// @Tags admin
// @Produce json
// @Success 200 {array} dto.QuizResponse
// @Router /quizzes [get]
func (ctrl *AdminController) ListQuizzes(c *gin.Context) {
	resp, err := ctrl.quizSvc.ListQuizzes()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list quizzes")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list quizzes"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetQuiz godoc
// @Summary Get a quiz
// @Tags admin
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id} [get]
func (ctrl *AdminController) GetQuiz(c *gin.Context) {
	id, ok := parseID(c, "quiz_id")
	if !ok {
		return
	}
	resp, err := ctrl.quizSvc.GetQuiz(id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to load quiz"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// SetQuizActive godoc
// @Summary Activate or deactivate a quiz
// @Tags admin
// @Accept json
// @Produce json
// @Param quiz_id path int true "Quiz ID"
// @Param body body object{active=bool} true "Active flag"
// @Success 200 {object} dto.QuizResponse
// @Failure 404 {object} dto.ErrorResponse "Quiz not found"
// @Router /quizzes/{quiz_id}/active [patch]
func (ctrl *AdminController) SetQuizActive(c *gin.Context) {
	id, ok := parseID(c, "quiz_id")
	if !ok {
		return
	}
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.quizSvc.SetActive(id, *req.Active)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Quiz not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to update quiz"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// AssignQuiz godoc
// @Summary Assign a quiz to a student or class
// @Tags admin
// @Accept json
// @Produce json
// @Param assignment body dto.AssignQuizRequest true "Assignment data"
// @Success 201 {object} dto.AssignmentResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Failure 404 {object} dto.ErrorResponse "Quiz, student or class not found"
// @Router /assignquiz [post]
func (ctrl *AdminController) AssignQuiz(c *gin.Context) {
	identity, _ := auth.IdentityFrom(c)

	var req dto.AssignQuizRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assignmentSvc.AssignQuiz(identity.UserID, req)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Quiz, student or class not found"})
			return
		}
		log.Error().Err(err).Msg("Failed to assign quiz")
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// Unassign godoc
// @Summary Remove a quiz assignment
// @Tags admin
// @Param assignment_id path int true "Assignment ID"
// @Success 204 "No Content"
// @Failure 404 {object} dto.ErrorResponse "Assignment not found"
// @Router /assignments/{assignment_id} [delete]
func (ctrl *AdminController) Unassign(c *gin.Context) {
	id, ok := parseID(c, "assignment_id")
	if !ok {
		return
	}
	if err := ctrl.assignmentSvc.Unassign(id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Assignment not found"})
			return
		}
		log.Error().Err(err).Uint("assignmentID", id).Msg("Failed to remove assignment")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to remove assignment"})
		return
	}
	c.Status(http.StatusNoContent)
}

// NewClass godoc
// @Summary Create a class
// @Tags admin
// @Accept json
// @Produce json
// @Param class body dto.ClassCreateRequest true "Class data"
// @Success 201 {object} dto.ClassResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid request body"
// @Router /newclass [post]
func (ctrl *AdminController) NewClass(c *gin.Context) {
	var req dto.ClassCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.assignmentSvc.CreateClass(req)
	if err != nil {
		log.Error().Err(err).Msg("Failed to create class")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to create class"})
		return
	}
	c.JSON(http.StatusCreated, resp)
}

// ListClasses godoc
// @Summary List all classes
// @Tags admin
// @Produce json
// @Success 200 {array} dto.ClassResponse
// @Router /classes [get]
func (ctrl *AdminController) ListClasses(c *gin.Context) {
	resp, err := ctrl.assignmentSvc.ListClasses()
	if err != nil {
		log.Error().Err(err).Msg("Failed to list classes")
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to list classes"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// DraftQuestions godoc
// @Summary Draft questions for a chapter with AI
// @Description Returns proposed questions for review; nothing is persisted
// @Tags admin
// @Accept json
// @Produce json
// @Param chapter_id path int true "Chapter ID"
// @Param request body dto.DraftQuestionsRequest true "Topic and count"
// @Success 200 {array} dto.DraftQuestion
// @Failure 404 {object} dto.ErrorResponse "Chapter not found"
// @Failure 503 {object} dto.ErrorResponse "Drafting not configured"
// @Router /chapters/{chapter_id}/draftquestions [post]
func (ctrl *AdminController) DraftQuestions(c *gin.Context) {
	id, ok := parseID(c, "chapter_id")
	if !ok {
		return
	}
	var req dto.DraftQuestionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: err.Error()})
		return
	}

	resp, err := ctrl.drafterSvc.DraftQuestions(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: "Chapter not found"})
		case errors.Is(err, service.ErrGenerationUnavailable):
			c.JSON(http.StatusServiceUnavailable, dto.ErrorResponse{Error: "Question drafting is not configured"})
		default:
			log.Error().Err(err).Msg("Failed to draft questions")
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: "Failed to draft questions"})
		}
		return
	}
	c.JSON(http.StatusOK, resp)
}
