package auth

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/bizio/bizio-api/internal/application/dto"
	"github.com/bizio/bizio-api/internal/domain"
	"github.com/bizio/bizio-api/internal/domain/entity"
	"github.com/bizio/bizio-api/internal/domain/repository"
	"github.com/bizio/bizio-api/pkg/jwt"
)

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthUseCase casos de uso de autenticación: registro de tenant, login, alta
// de usuarios adicionales.
type AuthUseCase struct {
	userRepo   repository.UserRepository
	tenantRepo repository.TenantRepository
	jwtCfg     JWTConfig
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(userRepo repository.UserRepository, tenantRepo repository.TenantRepository, jwtCfg JWTConfig) *AuthUseCase {
	return &AuthUseCase{userRepo: userRepo, tenantRepo: tenantRepo, jwtCfg: jwtCfg}
}

// Register crea un tenant nuevo con su usuario admin y devuelve el token de
// sesión. El email debe ser único globalmente.
func (uc *AuthUseCase) Register(in dto.RegisterRequest) (*dto.LoginResponse, error) {
	existing, _ := uc.userRepo.GetByEmail(in.Email)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	currency := in.Currency
	if currency == "" {
		currency = "KZT"
	}
	tenant := &entity.Tenant{
		ID:        uuid.New().String(),
		Name:      in.TenantName,
		Code:      tenantCode(in.TenantName),
		Timezone:  in.Timezone,
		Currency:  currency,
		IsActive:  true,
		CreatedAt: now,
	}
	if err := uc.tenantRepo.Create(tenant); err != nil {
		return nil, err
	}

	fullName := in.FullName
	if fullName == "" {
		fullName = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenant.ID,
		Email:        in.Email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         entity.RoleAdmin,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}

	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Login verifica email/password, genera JWT y retorna token + usuario.
func (uc *AuthUseCase) Login(in dto.LoginRequest) (*dto.LoginResponse, error) {
	user, err := uc.userRepo.GetByEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	if !user.IsActive {
		return nil, domain.ErrForbidden
	}
	token, err := jwt.Generate(uc.jwtCfg.Secret, user.ID, user.TenantID, user.Role, uc.jwtCfg.Issuer, uc.jwtCfg.ExpMinutes)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{Token: token, User: *toUserResponse(user)}, nil
}

// Me devuelve el perfil del usuario autenticado.
func (uc *AuthUseCase) Me(userID string) (*dto.UserResponse, error) {
	user, err := uc.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrUserNotFound
	}
	return toUserResponse(user), nil
}

// CreateUser alta de un usuario adicional del tenant (la autorización por rol
// la aplica el middleware).
func (uc *AuthUseCase) CreateUser(tenantID string, in dto.CreateUserRequest) (*dto.UserResponse, error) {
	existing, _ := uc.userRepo.GetByEmailAndTenant(in.Email, tenantID)
	if existing != nil {
		return nil, domain.ErrEmailAlreadyExists
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	fullName := in.FullName
	if fullName == "" {
		fullName = in.Email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		Email:        in.Email,
		FullName:     fullName,
		PasswordHash: string(hash),
		Role:         in.Role,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}

// tenantCode deriva un código corto a partir del nombre + sufijo aleatorio.
func tenantCode(name string) string {
	slug := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", "-"))
	if len(slug) > 20 {
		slug = slug[:20]
	}
	return slug + "-" + uuid.New().String()[:8]
}

func toUserResponse(u *entity.User) *dto.UserResponse {
	if u == nil {
		return nil
	}
	return &dto.UserResponse{
		ID:        u.ID,
		TenantID:  u.TenantID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
