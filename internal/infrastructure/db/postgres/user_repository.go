package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/99minutos/identity-service/internal/core/domain"
	"github.com/99minutos/identity-service/internal/core/ports"
)

const (
	uniqueViolation = "23505"
	userColumns     = `id, name, email, password_hash, role, image, created_at, updated_at`
)

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user *domain.User) (*domain.User, error) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, name, email, password_hash, role, image, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $7)
		 RETURNING `+userColumns,
		uuid.NewString(), user.Name, user.Email, user.PasswordHash, string(user.Role), user.Image, now,
	)
	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("insert user: %w", ports.ErrDuplicateRecord)
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	return created, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByID(id))
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.Find(ctx, domain.LookupByEmail(email))
}

func (r *UserRepository) Find(ctx context.Context, key domain.LookupKey) (*domain.User, error) {
	where, arg, err := keyClause(key, 1)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE `+where, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("find user %s: %w", key, ports.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context) ([]*domain.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *UserRepository) Update(ctx context.Context, key domain.LookupKey, patch domain.UserPatch) (*domain.User, error) {
	var (
		sets []string
		args []any
	)
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Email != nil {
		add("email", *patch.Email)
	}
	if patch.PasswordHash != nil {
		add("password_hash", *patch.PasswordHash)
	}
	if patch.Role != nil {
		add("role", string(*patch.Role))
	}
	if patch.Image != nil {
		add("image", *patch.Image)
	}
	add("updated_at", time.Now().UTC().Truncate(time.Microsecond))

	where, arg, err := keyClause(key, len(args)+1)
	if err != nil {
		return nil, err
	}
	args = append(args, arg)

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE ` + where + ` RETURNING ` + userColumns
	u, err := scanUser(r.db.QueryRowContext(ctx, query, args...))
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("update user %s: %w", key, ports.ErrRecordNotFound)
	case isUniqueViolation(err):
		return nil, fmt.Errorf("update user %s: %w", key, ports.ErrDuplicateRecord)
	case err != nil:
		return nil, fmt.Errorf("update user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Delete(ctx context.Context, key domain.LookupKey) (*domain.User, error) {
	where, arg, err := keyClause(key, 1)
	if err != nil {
		return nil, err
	}
	u, err := scanUser(r.db.QueryRowContext(ctx, `DELETE FROM users WHERE `+where+` RETURNING `+userColumns, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("delete user %s: %w", key, ports.ErrRecordNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}
	return u, nil
}

func (r *UserRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// keyClause renders the WHERE condition for key using placeholder $n.
// An id that is not a UUID cannot exist and is reported as not found.
func keyClause(key domain.LookupKey, n int) (string, any, error) {
	placeholder := "$" + strconv.Itoa(n)
	switch key.Field {
	case domain.FieldID:
		id, err := uuid.Parse(key.Value)
		if err != nil {
			return "", nil, fmt.Errorf("user %s: %w", key, ports.ErrRecordNotFound)
		}
		return "id = " + placeholder, id.String(), nil
	case domain.FieldEmail:
		return "email = " + placeholder, key.Value, nil
	}
	return "", nil, fmt.Errorf("unsupported lookup field %q", key.Field)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var (
		u    domain.User
		role string
	)
	if err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &role, &u.Image, &u.CreatedAt, &u.UpdatedAt); err != nil {
		return nil, err
	}
	u.Role = domain.Role(role)
	u.CreatedAt = u.CreatedAt.UTC()
	u.UpdatedAt = u.UpdatedAt.UTC()
	return &u, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

var _ ports.UserRepository = (*UserRepository)(nil)
