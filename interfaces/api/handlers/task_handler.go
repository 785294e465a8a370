package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"todo-back/domain/dto"
	"todo-back/domain/models"
	"todo-back/domain/services"
	"todo-back/pkg/logger"
	"todo-back/pkg/utils"
	"todo-back/pkg/validation"
)

type TaskHandler struct {
	taskService services.TaskService
}

func NewTaskHandler(taskService services.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ListTasks GET /api/Tarefa[?status=]
func (h *TaskHandler) ListTasks(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var filter dto.TaskFilterRequest
	if err := c.QueryParser(&filter); err != nil {
		return utils.BadRequestResponse(c, "Invalid query parameters")
	}

	var (
		tasks []*models.Task
		err   error
	)
	if filter.Status != "" {
		status, perr := models.ParseTaskStatus(filter.Status)
		if perr != nil {
			logger.WarnContext(ctx, "Invalid status filter", "status", filter.Status)
			return utils.BadRequestResponse(c, perr.Error())
		}
		tasks, err = h.taskService.ListTasksByStatus(ctx, status)
	} else {
		tasks, err = h.taskService.ListTasks(ctx)
	}
	if err != nil {
		return utils.InternalServerErrorResponse(c)
	}

	return utils.SuccessResponse(c, dto.TasksToTaskResponses(tasks))
}

// GetTask GET /api/Tarefa/:id
func (h *TaskHandler) GetTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseTaskID(c)
	if err != nil {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", c.Params("id"))
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	task, err := h.taskService.GetTask(ctx, id)
	if err != nil {
		return h.serviceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// CreateTask POST /api/Tarefa
func (h *TaskHandler) CreateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	task, err := h.taskService.CreateTask(ctx, &req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return utils.CreatedResponse(c, dto.TaskToTaskResponse(task))
}

// UpdateTask PUT /api/Tarefa/:id
func (h *TaskHandler) UpdateTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseTaskID(c)
	if err != nil {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", c.Params("id"))
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid request body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	if err := utils.ValidateStruct(&req); err != nil {
		errs := utils.GetValidationErrors(err)
		logger.WarnContext(ctx, "Validation failed", "task_id", id, "errors", errs)
		return utils.ValidationErrorResponse(c, errs)
	}

	task, err := h.taskService.UpdateTask(ctx, id, &req)
	if err != nil {
		return h.serviceError(c, err)
	}

	return utils.SuccessResponse(c, dto.TaskToTaskResponse(task))
}

// DeleteTask DELETE /api/Tarefa/:id
func (h *TaskHandler) DeleteTask(c *fiber.Ctx) error {
	ctx := c.UserContext()

	id, err := parseTaskID(c)
	if err != nil {
		logger.WarnContext(ctx, "Invalid task ID", "task_id", c.Params("id"))
		return utils.BadRequestResponse(c, "Invalid task ID")
	}

	if err := h.taskService.DeleteTask(ctx, id); err != nil {
		return h.serviceError(c, err)
	}

	return utils.OKResponse(c)
}

// SaveOrdering PUT /api/Tarefa/Ordenacao
func (h *TaskHandler) SaveOrdering(c *fiber.Ctx) error {
	ctx := c.UserContext()

	var req []dto.TaskOrderingRequest
	if err := c.BodyParser(&req); err != nil {
		logger.WarnContext(ctx, "Invalid ordering body", "error", err)
		return utils.BadRequestResponse(c, "Invalid request body")
	}

	for i := range req {
		if err := utils.ValidateStruct(&req[i]); err != nil {
			errs := utils.GetValidationErrors(err)
			logger.WarnContext(ctx, "Validation failed", "index", i, "errors", errs)
			return utils.ValidationErrorResponse(c, errs)
		}
	}

	if err := h.taskService.SaveOrdering(ctx, dto.TaskOrderingRequestsToOrderings(req)); err != nil {
		return utils.InternalServerErrorResponse(c)
	}

	return utils.OKResponse(c)
}

func (h *TaskHandler) serviceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrTaskNotFound):
		return utils.NotFoundResponse(c, "Task not found")
	case errors.Is(err, services.ErrInvalidTask):
		return utils.ValidationErrorResponse(c, validationDetails(err))
	default:
		return utils.InternalServerErrorResponse(c)
	}
}

// validationDetails lists the entity rules behind an ErrInvalidTask.
func validationDetails(err error) []utils.ValidationError {
	var causes []error
	if multi, ok := err.(interface{ Unwrap() []error }); ok {
		for _, e := range multi.Unwrap() {
			if e == services.ErrInvalidTask {
				continue
			}
			if joined, ok := e.(interface{ Unwrap() []error }); ok {
				causes = append(causes, joined.Unwrap()...)
			} else {
				causes = append(causes, e)
			}
		}
	}
	if len(causes) == 0 {
		return []utils.ValidationError{{Message: err.Error()}}
	}

	details := make([]utils.ValidationError, 0, len(causes))
	for _, cause := range causes {
		detail := utils.ValidationError{Message: cause.Error()}
		var dateErr *validation.DateOrderError
		switch {
		case errors.As(cause, &dateErr):
			detail.Field = dateErr.Field
		case errors.Is(cause, models.ErrTitleRequired), errors.Is(cause, models.ErrTitleTooLong):
			detail.Field = "titulo"
		case errors.Is(cause, models.ErrInvalidStatus):
			detail.Field = "status"
		}
		details = append(details, detail)
	}
	return details
}

func parseTaskID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 0)
	if err != nil || id == 0 {
		return 0, errors.New("invalid task id")
	}
	return uint(id), nil
}
