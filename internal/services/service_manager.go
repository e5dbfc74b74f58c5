package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/SAP-F-2025/training-portal/internal/events"
	"github.com/SAP-F-2025/training-portal/internal/validator"
)

// ServiceManagerConfig holds configuration for the service manager
type ServiceManagerConfig struct {
	DemoPassword string
	NotebookURL  string
}

// serviceManager implements ServiceManager interface
type serviceManager struct {
	// Dependencies
	api       BackendAPI
	events    events.EventPublisher
	logger    *slog.Logger
	validator *validator.BusinessValidator
	config    ServiceManagerConfig

	// Service instances
	loginService   LoginService
	studentService StudentService
	teacherService TeacherService

	// Lifecycle management
	initialized bool
	shutdown    bool
	mu          sync.RWMutex
}

// NewServiceManager creates a new service manager with all dependencies
func NewServiceManager(api BackendAPI, publisher events.EventPublisher, logger *slog.Logger, validator *validator.BusinessValidator, config ServiceManagerConfig) ServiceManager {
	return &serviceManager{
		api:       api,
		events:    publisher,
		logger:    logger,
		validator: validator,
		config:    config,
	}
}

// Initialize sets up all services and their dependencies
func (sm *serviceManager) Initialize(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.initialized {
		return nil
	}
	if err := sm.config.Validate(); err != nil {
		return fmt.Errorf("failed to initialize services: %w", err)
	}

	sm.logger.Info("Initializing service manager")

	sm.loginService = NewLoginService(sm.api, sm.events, sm.logger, sm.config.DemoPassword)
	sm.studentService = NewStudentService(sm.api, sm.events, sm.logger, sm.validator, sm.config.NotebookURL)
	sm.teacherService = NewTeacherService(sm.api, sm.events, sm.logger, sm.validator)

	sm.initialized = true
	sm.logger.Info("Service manager initialized successfully")

	return nil
}

// Service getters
func (sm *serviceManager) Login() LoginService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.loginService
}

func (sm *serviceManager) Student() StudentService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.studentService
}

func (sm *serviceManager) Teacher() TeacherService {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	if !sm.initialized {
		panic("service manager not initialized")
	}
	return sm.teacherService
}

func (sm *serviceManager) Shutdown(ctx context.Context) error {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if sm.shutdown {
		return nil
	}

	sm.logger.Info("Shutting down service manager")

	if sm.events != nil {
		if err := sm.events.Close(); err != nil {
			sm.logger.Error("Failed to close event publisher", "error", err)
		}
	}

	sm.shutdown = true
	sm.logger.Info("Service manager shut down completed")

	return nil
}

// Validate validates the service manager configuration
func (config *ServiceManagerConfig) Validate() error {
	var errors []string

	if config.DemoPassword == "" {
		errors = append(errors, "demo password must not be empty")
	}
	if config.NotebookURL == "" {
		errors = append(errors, "notebook url must not be empty")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %v", errors)
	}
	return nil
}
