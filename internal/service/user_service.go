package service

import (
	"context"
	"log/slog"

	"forum/internal/auth"
	"forum/internal/middleware"
	"forum/internal/models"
	"forum/internal/repository"
)

const entityUser = "User"

type UserService struct {
	users  repository.UserRepository
	hasher auth.Hasher
}

type CreateUserInput struct {
	Username string
	Email    string
	Password string
}

// UpdateUserInput carries the fields to change; nil means absent.
type UpdateUserInput struct {
	Username *string
	Email    *string
	Password *string
	Avatar   *string
}

func NewUserService(users repository.UserRepository, hasher auth.Hasher) *UserService {
	return &UserService{users: users, hasher: hasher}
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.users.GetAll(ctx)
	if err != nil {
		return nil, storeFailure("retrieve", "Users", err)
	}
	return users, nil
}

// GetUser returns nil when no user has the id.
func (s *UserService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure("retrieve", entityUser, err)
	}
	return user, nil
}

func (s *UserService) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, storeFailure("retrieve", entityUser, err)
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, storeFailure("retrieve", entityUser, err)
	}
	return user, nil
}

func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (user *models.User, err error) {
	ctx, done := instrument(ctx, "user", opCreate)
	defer func() { done(err) }()

	if in.Username == "" && in.Email == "" && in.Password == "" {
		return nil, invalid(opCreate, entityUser, "Missing required fields.")
	}
	if blank(in.Username) {
		return nil, invalid(opCreate, entityUser, "Missing username.")
	}
	if blank(in.Email) {
		return nil, invalid(opCreate, entityUser, "Missing email.")
	}
	if blank(in.Password) {
		return nil, invalid(opCreate, entityUser, "Missing password.")
	}

	existing, err := s.users.FindByUsername(ctx, in.Username)
	if err != nil {
		return nil, storeFailure(opCreate, entityUser, err)
	}
	if existing != nil {
		return nil, invalid(opCreate, entityUser, "Duplicate username.")
	}
	existing, err = s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		return nil, storeFailure(opCreate, entityUser, err)
	}
	if existing != nil {
		return nil, invalid(opCreate, entityUser, "Duplicate email.")
	}

	hashed, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user = &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hashed,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, storeFailure(opCreate, entityUser, err)
	}

	middleware.Logger.InfoContext(ctx, "user created",
		slog.Uint64("id", uint64(user.ID)),
		slog.String("username", user.Username),
	)
	return user, nil
}

func (s *UserService) UpdateUser(ctx context.Context, id uint, in UpdateUserInput) (user *models.User, err error) {
	ctx, done := instrument(ctx, "user", opUpdate)
	defer func() { done(err) }()

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opUpdate, entityUser, err)
	}
	if current == nil {
		return nil, missing(opUpdate, entityUser, entityUser, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opUpdate, entityUser, "User has been deleted.")
	}
	if empty(in.Username) && empty(in.Email) && empty(in.Password) && empty(in.Avatar) {
		return nil, invalid(opUpdate, entityUser, "No update parameters were provided.")
	}

	fields := map[string]any{}

	if in.Email != nil {
		if blank(*in.Email) {
			return nil, invalid(opUpdate, entityUser, "Missing email.")
		}
		if *in.Email != current.Email {
			taken, err := s.users.FindByEmail(ctx, *in.Email)
			if err != nil {
				return nil, storeFailure(opUpdate, entityUser, err)
			}
			if taken != nil {
				return nil, invalid(opUpdate, entityUser, "Duplicate email.")
			}
		}
		fields["email"] = *in.Email
	}

	if in.Username != nil {
		if blank(*in.Username) {
			return nil, invalid(opUpdate, entityUser, "Missing username.")
		}
		if *in.Username != current.Username {
			taken, err := s.users.FindByUsername(ctx, *in.Username)
			if err != nil {
				return nil, storeFailure(opUpdate, entityUser, err)
			}
			if taken != nil {
				return nil, invalid(opUpdate, entityUser, "Duplicate username.")
			}
		}
		fields["username"] = *in.Username
	}

	if in.Password != nil {
		if blank(*in.Password) {
			return nil, invalid(opUpdate, entityUser, "Missing password.")
		}
		hashed, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		fields["password"] = hashed
	}

	if in.Avatar != nil {
		fields["avatar"] = *in.Avatar
	}

	user, err = s.users.Update(ctx, id, fields)
	if err != nil {
		return nil, storeFailure(opUpdate, entityUser, err)
	}

	middleware.Logger.InfoContext(ctx, "user updated", slog.Uint64("id", uint64(id)))
	return user, nil
}

func (s *UserService) DeleteUser(ctx context.Context, id uint) (user *models.User, err error) {
	ctx, done := instrument(ctx, "user", opDelete)
	defer func() { done(err) }()

	current, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityUser, err)
	}
	if current == nil {
		return nil, missing(opDelete, entityUser, entityUser, id)
	}
	if current.IsDeleted() {
		return nil, invalid(opDelete, entityUser, "User has already been deleted.")
	}

	user, err = s.users.Delete(ctx, id)
	if err != nil {
		return nil, storeFailure(opDelete, entityUser, err)
	}

	middleware.Logger.InfoContext(ctx, "user deleted", slog.Uint64("id", uint64(id)))
	return user, nil
}

// empty treats an absent field and an empty string alike.
func empty(s *string) bool {
	return s == nil || *s == ""
}
