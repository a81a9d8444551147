package handler

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"exam-mixer/internal/config"
	"exam-mixer/internal/domain"
	"exam-mixer/internal/dto"
	"exam-mixer/internal/logger"
	"exam-mixer/internal/middleware"
	"exam-mixer/internal/service"
	"exam-mixer/internal/validation"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const uploadField = "file"

// ExamHandler handles question bank and exam HTTP requests
type ExamHandler struct {
	service   service.ExamService
	validator *validation.Validator
	defaults  config.GenerationConfig
}

// NewExamHandler creates a new ExamHandler instance
func NewExamHandler(service service.ExamService, defaults config.GenerationConfig) *ExamHandler {
	return &ExamHandler{
		service:   service,
		validator: validation.NewValidator(),
		defaults:  defaults,
	}
}

// RegisterRoutes mounts the handler under router (normally /api).
func (h *ExamHandler) RegisterRoutes(router fiber.Router, vm *middleware.ValidationMiddleware) {
	router.Post("/documents", h.ImportDocument)
	router.Get("/documents", vm.ValidateListParams(), h.ListQuestionBanks)
	router.Get("/documents/:id", vm.ValidateBankIDParam(), h.GetQuestionBank)
	router.Delete("/documents/:id", vm.ValidateBankIDParam(), h.DeleteQuestionBank)

	router.Post("/exams", h.GenerateExams)
	router.Post("/exams/preview", h.PreviewExam)
	router.Post("/exams/package", h.BuildPackage)
	router.Get("/exams/:runID/package", h.DownloadPackage)
}

// ImportDocument godoc
// @Summary Upload a question document
// @Description Extracts the questions of a .docx or .txt file and stores them as a question bank
// @Tags documents
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Question document (.docx or .txt)"
// @Success 201 {object} dto.ImportDocumentResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /documents [post]
func (h *ExamHandler) ImportDocument(c *fiber.Ctx) error {
	name, content, err := readUpload(c)
	if err != nil {
		return err
	}

	resp, err := h.service.ImportDocument(c.UserContext(), name, content)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// ListQuestionBanks godoc
// @Summary List question banks
// @Description Returns the most recently imported question banks
// @Tags documents
// @Produce json
// @Param limit query int false "Maximum number of banks (1-200)" default(50)
// @Success 200 {object} dto.QuestionBankListResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /documents [get]
func (h *ExamHandler) ListQuestionBanks(c *fiber.Ctx) error {
	limit, _ := c.Locals(middleware.LocalListLimit).(int)
	resp, err := h.service.ListQuestionBanks(c.UserContext(), limit)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// GetQuestionBank godoc
// @Summary Get a question bank
// @Description Returns a question bank with its topic and difficulty breakdown
// @Tags documents
// @Produce json
// @Param id path string true "Question bank ID"
// @Success 200 {object} dto.QuestionBankResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /documents/{id} [get]
func (h *ExamHandler) GetQuestionBank(c *fiber.Ctx) error {
	bankID, _ := c.Locals(middleware.LocalBankID).(string)
	resp, err := h.service.GetQuestionBank(c.UserContext(), bankID)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DeleteQuestionBank godoc
// @Summary Delete a question bank
// @Tags documents
// @Param id path string true "Question bank ID"
// @Success 204
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 500 {object} middleware.ErrorResponse
// @Router /documents/{id} [delete]
func (h *ExamHandler) DeleteQuestionBank(c *fiber.Ctx) error {
	bankID, _ := c.Locals(middleware.LocalBankID).(string)
	if err := h.service.DeleteQuestionBank(c.UserContext(), bankID); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GenerateExams godoc
// @Summary Generate exam versions
// @Description Draws exam versions from a question bank and caches the zip package for download
// @Tags exams
// @Accept json
// @Produce json
// @Param request body dto.GenerateExamRequest true "Generation settings"
// @Success 201 {object} dto.GenerateExamResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /exams [post]
func (h *ExamHandler) GenerateExams(c *fiber.Ctx) error {
	req, err := h.parseGenerateRequest(c)
	if err != nil {
		return err
	}

	resp, err := h.service.GenerateExams(c.UserContext(), req)
	if err != nil {
		return err
	}
	if resp.ExpiresAt != nil {
		resp.DownloadURL = fmt.Sprintf("%s/%s/package", strings.TrimSuffix(c.Path(), "/"), resp.RunID)
	}

	logger.Get().Info("Generated exams",
		zap.String("runID", resp.RunID),
		zap.String("bankID", resp.BankID),
		zap.Int("versions", len(resp.Versions)))
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// PreviewExam godoc
// @Summary Preview one exam version
// @Description Assembles a single version and returns its questions
// @Tags exams
// @Accept json
// @Produce json
// @Param request body dto.GenerateExamRequest true "Generation settings"
// @Success 200 {object} dto.PreviewExamResponse
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 404 {object} middleware.ErrorResponse
// @Router /exams/preview [post]
func (h *ExamHandler) PreviewExam(c *fiber.Ctx) error {
	req, err := h.parseGenerateRequest(c)
	if err != nil {
		return err
	}

	resp, err := h.service.PreviewExam(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

// DownloadPackage godoc
// @Summary Download a generated package
// @Description Returns the zip package of a generation run while it is cached
// @Tags exams
// @Produce application/zip
// @Param runID path string true "Generation run ID"
// @Success 200 {file} file
// @Failure 404 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /exams/{runID}/package [get]
func (h *ExamHandler) DownloadPackage(c *fiber.Ctx) error {
	runID := c.Params("runID")
	data, err := h.service.GetPackage(c.UserContext(), runID)
	if err != nil {
		return err
	}
	c.Attachment(fmt.Sprintf("exams_%s.zip", runID))
	return c.Send(data)
}

// BuildPackage godoc
// @Summary Build a package in one step
// @Description Uploads a document and returns the generated zip package without storing anything
// @Tags exams
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "Question document (.docx or .txt)"
// @Param num_versions formData int false "Number of versions (1-50)"
// @Param num_questions formData int false "Questions per version (1-500)"
// @Param easy_percent formData int false "Easy percentage"
// @Param medium_percent formData int false "Medium percentage"
// @Param hard_percent formData int false "Hard percentage"
// @Param theory_ratio formData number false "Share of theory questions (0-1)"
// @Param include_answers formData bool false "Mark correct options in the exams"
// @Param ai_answer_keys formData bool false "Fill answer sheets with the answer key service"
// @Param include_statistics formData bool false "Add ThongKe.txt"
// @Success 200 {file} file
// @Failure 400 {object} middleware.ValidationErrorResponse
// @Failure 422 {object} middleware.ErrorResponse
// @Failure 503 {object} middleware.ErrorResponse
// @Router /exams/package [post]
func (h *ExamHandler) BuildPackage(c *fiber.Ctx) error {
	var settings dto.ExamSettings
	if err := c.BodyParser(&settings); err != nil {
		return domain.ValidationErrors{domain.NewInvalidFormatError("settings", nil)}
	}
	settings.ApplyDefaults(h.defaults)
	if errs := h.validator.ValidateExamSettings(settings); len(errs) > 0 {
		return errs
	}

	name, content, err := readUpload(c)
	if err != nil {
		return err
	}

	data, err := h.service.BuildPackage(c.UserContext(), name, content, settings)
	if err != nil {
		return err
	}
	base := strings.TrimSuffix(filepath.Base(name), filepath.Ext(name))
	c.Attachment(base + "_exams.zip")
	return c.Send(data)
}

func (h *ExamHandler) parseGenerateRequest(c *fiber.Ctx) (*dto.GenerateExamRequest, error) {
	var req dto.GenerateExamRequest
	if err := c.BodyParser(&req); err != nil {
		logger.Get().Debug("Failed to parse generate request", zap.Error(err))
		return nil, domain.ValidationErrors{domain.NewInvalidFormatError("body", nil)}
	}
	req.ApplyDefaults(h.defaults)
	if errs := h.validator.ValidateGenerateExamRequest(&req); len(errs) > 0 {
		return nil, errs
	}
	return &req, nil
}

// readUpload returns the name and bytes of the multipart "file" field.
func readUpload(c *fiber.Ctx) (string, []byte, error) {
	fh, err := c.FormFile(uploadField)
	if err != nil {
		return "", nil, domain.ValidationErrors{domain.NewMissingFieldError(uploadField)}
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to open upload", err)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return "", nil, domain.NewInternalError("Failed to read upload", err)
	}
	return fh.Filename, content, nil
}
