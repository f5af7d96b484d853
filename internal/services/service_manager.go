package services

import (
	"log/slog"

	"github.com/SAP-F-2025/identity-service/internal/auth"
	"github.com/SAP-F-2025/identity-service/internal/events"
	"github.com/SAP-F-2025/identity-service/internal/repositories"
	"github.com/SAP-F-2025/identity-service/internal/validator"
)

// ServiceManagerImpl wires the identity services over a shared repository,
// validator, and event publisher.
type ServiceManagerImpl struct {
	auth    AuthService
	user    UserService
	student StudentService
	teacher TeacherService
	parent  ParentService
	export  ExportService
}

// ServiceConfig carries the shared dependencies for service construction.
type ServiceConfig struct {
	Repository   repositories.Repository
	TokenManager *auth.TokenManager
	Validator    *validator.Validator
	Publisher    events.EventPublisher
	Logger       *slog.Logger
}

func NewServiceManager(cfg ServiceConfig) ServiceManager {
	return &ServiceManagerImpl{
		auth:    NewAuthService(cfg.Repository, cfg.TokenManager, cfg.Validator, cfg.Publisher, cfg.Logger),
		user:    NewUserService(cfg.Repository, cfg.Validator, cfg.Publisher, cfg.Logger),
		student: NewStudentService(cfg.Repository, cfg.Validator, cfg.Publisher, cfg.Logger),
		teacher: NewTeacherService(cfg.Repository, cfg.Validator, cfg.Logger),
		parent:  NewParentService(cfg.Repository, cfg.Validator, cfg.Publisher, cfg.Logger),
		export:  NewExportService(cfg.Repository, cfg.Logger),
	}
}

func (m *ServiceManagerImpl) Auth() AuthService       { return m.auth }
func (m *ServiceManagerImpl) User() UserService       { return m.user }
func (m *ServiceManagerImpl) Student() StudentService { return m.student }
func (m *ServiceManagerImpl) Teacher() TeacherService { return m.teacher }
func (m *ServiceManagerImpl) Parent() ParentService   { return m.parent }
func (m *ServiceManagerImpl) Export() ExportService   { return m.export }
