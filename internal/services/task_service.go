package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/attendly/attendance-api/internal/constants"
	"github.com/attendly/attendance-api/internal/models"
	"github.com/attendly/attendance-api/internal/repository"
)

var (
	ErrTaskNotFound        = errors.New("task not found")
	ErrEmptyUpdate         = errors.New("update contains no recognized fields")
	ErrInvalidTaskStatus   = errors.New("invalid task status")
	ErrInvalidTaskPriority = errors.New("invalid task priority")
)

// TaskService handles task business logic. Every operation is scoped to the
// acting user at the query level.
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	UserID      uint64
	Title       string
	Description string
	Priority    models.TaskPriority
	DueDate     *time.Time
}

// CreateTask creates a new task with defaulted priority and status
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	title := strings.TrimSpace(input.Title)

	if err := validateAll(
		requireNonEmpty("title", title),
		boundLength("title", title, constants.MaxTitleLength),
		boundLength("description", input.Description, constants.MaxDescriptionLength),
	); err != nil {
		return nil, err
	}

	priority := input.Priority
	if priority == "" {
		priority = models.TaskPriorityMedium
	}
	if !models.ValidTaskPriority(priority) {
		return nil, ErrInvalidTaskPriority
	}

	task := &models.Task{
		UserID:      input.UserID,
		Title:       title,
		Description: input.Description,
		Priority:    priority,
		Status:      models.TaskStatusPending,
		DueDate:     input.DueDate,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// ListTasksInput represents filters for listing tasks
type ListTasksInput struct {
	UserID   uint64
	Status   *models.TaskStatus
	Priority *models.TaskPriority
	Page     int
	PageSize int
}

// ListTasks returns the user's tasks, urgent work first
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	if input.Status != nil && !models.ValidTaskStatus(*input.Status) {
		return nil, 0, ErrInvalidTaskStatus
	}
	if input.Priority != nil && !models.ValidTaskPriority(*input.Priority) {
		return nil, 0, ErrInvalidTaskPriority
	}

	tasks, total, err := s.taskRepo.List(repository.TaskFilter{
		UserID:   input.UserID,
		Status:   input.Status,
		Priority: input.Priority,
		Page:     input.Page,
		PageSize: input.PageSize,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// GetTask returns a task owned by the user
func (s *TaskService) GetTask(taskID, userID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents a partial update; nil fields stay untouched.
type UpdateTaskInput struct {
	Title        *string
	Description  *string
	Priority     *models.TaskPriority
	Status       *models.TaskStatus
	DueDate      *time.Time
	ClearDueDate bool
}

func (input UpdateTaskInput) empty() bool {
	return input.Title == nil &&
		input.Description == nil &&
		input.Priority == nil &&
		input.Status == nil &&
		input.DueDate == nil &&
		!input.ClearDueDate
}

// UpdateTask applies a partial update to a task owned by the user
func (s *TaskService) UpdateTask(taskID, userID uint64, input UpdateTaskInput) (*models.Task, error) {
	if input.empty() {
		return nil, ErrEmptyUpdate
	}

	task, err := s.taskRepo.FindByOwner(taskID, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		title := strings.TrimSpace(*input.Title)
		if err := validateAll(
			requireNonEmpty("title", title),
			boundLength("title", title, constants.MaxTitleLength),
		); err != nil {
			return nil, err
		}
		task.Title = title
	}
	if input.Description != nil {
		if err := validateAll(boundLength("description", *input.Description, constants.MaxDescriptionLength)); err != nil {
			return nil, err
		}
		task.Description = *input.Description
	}
	if input.Priority != nil {
		if !models.ValidTaskPriority(*input.Priority) {
			return nil, ErrInvalidTaskPriority
		}
		task.Priority = *input.Priority
	}
	if input.Status != nil {
		if !models.ValidTaskStatus(*input.Status) {
			return nil, ErrInvalidTaskStatus
		}
		task.Status = *input.Status
	}
	if input.ClearDueDate {
		task.DueDate = nil
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes a task owned by the user. A repeat delete reports
// ErrTaskNotFound rather than failing loudly.
func (s *TaskService) DeleteTask(taskID, userID uint64) error {
	rows, err := s.taskRepo.DeleteByOwner(taskID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if rows == 0 {
		return ErrTaskNotFound
	}
	return nil
}
