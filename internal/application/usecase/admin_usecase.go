package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/Licencia-api/internal/application/dto"
	"github.com/jhoicas/Licencia-api/internal/domain"
	"github.com/jhoicas/Licencia-api/internal/domain/access"
	"github.com/jhoicas/Licencia-api/internal/domain/entity"
	"github.com/jhoicas/Licencia-api/internal/domain/repository"
	"github.com/jhoicas/Licencia-api/pkg/clock"
	"github.com/jhoicas/Licencia-api/pkg/logger"
)

// MinPasswordLength largo mínimo de password de un administrador.
const MinPasswordLength = 8

// AdminUseCase gestión de administradores (solo super-admin).
type AdminUseCase struct {
	repo      repository.AdminRepository
	companies repository.CompanyRepository
	clock     clock.Clock
	hashCost  int
	log       *logger.Logger
}

// NewAdminUseCase construye el caso de uso.
func NewAdminUseCase(repo repository.AdminRepository, companies repository.CompanyRepository, clk clock.Clock, log *logger.Logger) *AdminUseCase {
	return &AdminUseCase{repo: repo, companies: companies, clock: clk, hashCost: bcrypt.DefaultCost, log: log.Component("admin")}
}

// WithHashCost ajusta el costo de bcrypt (los tests usan bcrypt.MinCost).
func (uc *AdminUseCase) WithHashCost(cost int) *AdminUseCase {
	uc.hashCost = cost
	return uc
}

// List administradores con la cantidad de empresas que posee cada uno.
func (uc *AdminUseCase) List(ctx context.Context, caller *entity.Admin) ([]dto.AdminResponse, error) {
	if err := access.RequireSuperAdmin(caller); err != nil {
		return nil, err
	}
	list, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.AdminResponse, 0, len(list))
	for _, s := range list {
		a := s.Admin
		out = append(out, ToAdminResponse(&a, s.CompanyCount))
	}
	return out, nil
}

// GetByID obtiene un administrador.
func (uc *AdminUseCase) GetByID(ctx context.Context, caller *entity.Admin, id string) (*dto.AdminResponse, error) {
	if err := access.RequireSuperAdmin(caller); err != nil {
		return nil, err
	}
	admin, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	return uc.response(ctx, admin)
}

// Me datos del administrador autenticado.
func (uc *AdminUseCase) Me(ctx context.Context, caller *entity.Admin) (*dto.AdminResponse, error) {
	if caller == nil {
		return nil, domain.ErrUnauthorized
	}
	return uc.response(ctx, caller)
}

// Create crea un administrador. El teléfono es el usuario de login y debe ser único.
func (uc *AdminUseCase) Create(ctx context.Context, caller *entity.Admin, in dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	if err := access.RequireSuperAdmin(caller); err != nil {
		return nil, err
	}
	admin, err := uc.newAdmin(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	uc.log.Info().Str("admin_id", admin.ID).Bool("super_admin", admin.IsSuperAdmin).Str("by", caller.ID).Msg("administrador creado")
	out := ToAdminResponse(admin, 0)
	return &out, nil
}

// Bootstrap crea el primer super-admin. Falla con ErrConflict si ya existe algún administrador.
func (uc *AdminUseCase) Bootstrap(ctx context.Context, in dto.CreateAdminRequest) (*dto.AdminResponse, error) {
	n, err := uc.repo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if n > 0 {
		return nil, fmt.Errorf("%w: ya existen administradores", domain.ErrConflict)
	}
	in.IsSuperAdmin = true
	in.Permissions = nil
	admin, err := uc.newAdmin(in)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, admin); err != nil {
		return nil, err
	}
	uc.log.Info().Str("admin_id", admin.ID).Msg("super-admin inicial creado")
	out := ToAdminResponse(admin, 0)
	return &out, nil
}

// Update modifica un administrador. Un super-admin no puede quitarse a sí mismo el rol.
func (uc *AdminUseCase) Update(ctx context.Context, caller *entity.Admin, id string, in dto.UpdateAdminRequest) (*dto.AdminResponse, error) {
	if err := access.RequireSuperAdmin(caller); err != nil {
		return nil, err
	}
	admin, err := uc.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		name := normalizeName(*in.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: name no puede quedar vacío", domain.ErrInvalidInput)
		}
		admin.Name = name
	}
	if in.Phone != nil {
		phone := strings.TrimSpace(*in.Phone)
		if phone == "" {
			return nil, fmt.Errorf("%w: phone no puede quedar vacío", domain.ErrInvalidInput)
		}
		admin.Phone = phone
	}
	if in.IsSuperAdmin != nil {
		if admin.ID == caller.ID && !*in.IsSuperAdmin {
			return nil, fmt.Errorf("%w: no puede quitarse el rol de super-admin", domain.ErrInvalidInput)
		}
		admin.IsSuperAdmin = *in.IsSuperAdmin
	}
	if in.Permissions != nil {
		perms, err := validatePermissions(*in.Permissions)
		if err != nil {
			return nil, err
		}
		admin.Permissions = perms
	}
	if in.Password != nil {
		hash, err := uc.hash(*in.Password)
		if err != nil {
			return nil, err
		}
		admin.PasswordHash = hash
	}
	admin.UpdatedAt = uc.clock.Now()
	if err := uc.repo.Update(ctx, admin); err != nil {
		return nil, err
	}
	return uc.response(ctx, admin)
}

// Delete elimina un administrador. La auto-eliminación se rechaza antes de buscar el destino;
// un admin que todavía posee empresas no se puede eliminar (ErrConflict).
func (uc *AdminUseCase) Delete(ctx context.Context, caller *entity.Admin, id string) error {
	if err := access.CanDeleteAdmin(caller, id); err != nil {
		return err
	}
	admin, err := uc.load(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.repo.Delete(ctx, admin.ID); err != nil {
		return err
	}
	uc.log.Info().Str("admin_id", admin.ID).Str("by", caller.ID).Msg("administrador eliminado")
	return nil
}

func (uc *AdminUseCase) newAdmin(in dto.CreateAdminRequest) (*entity.Admin, error) {
	name := normalizeName(in.Name)
	phone := strings.TrimSpace(in.Phone)
	if name == "" || phone == "" {
		return nil, fmt.Errorf("%w: name y phone son requeridos", domain.ErrInvalidInput)
	}
	perms, err := validatePermissions(in.Permissions)
	if err != nil {
		return nil, err
	}
	hash, err := uc.hash(in.Password)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	return &entity.Admin{
		ID:           uuid.New().String(),
		Name:         name,
		Phone:        phone,
		PasswordHash: hash,
		IsSuperAdmin: in.IsSuperAdmin,
		Permissions:  perms,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

func (uc *AdminUseCase) hash(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", fmt.Errorf("%w: el password debe tener al menos %d caracteres", domain.ErrInvalidInput, MinPasswordLength)
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), uc.hashCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (uc *AdminUseCase) load(ctx context.Context, id string) (*entity.Admin, error) {
	admin, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if admin == nil {
		return nil, fmt.Errorf("%w: administrador", domain.ErrNotFound)
	}
	return admin, nil
}

func (uc *AdminUseCase) response(ctx context.Context, admin *entity.Admin) (*dto.AdminResponse, error) {
	st, err := uc.companies.Stats(ctx, admin.ID, uc.clock.Now())
	if err != nil {
		return nil, err
	}
	out := ToAdminResponse(admin, st.Total)
	return &out, nil
}

// validatePermissions deduplica y rechaza permisos desconocidos.
func validatePermissions(perms []string) ([]string, error) {
	out := make([]string, 0, len(perms))
	seen := make(map[string]bool, len(perms))
	for _, p := range perms {
		if !entity.IsValidPermission(p) {
			return nil, fmt.Errorf("%w: permiso desconocido %q", domain.ErrInvalidInput, p)
		}
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	return out, nil
}
