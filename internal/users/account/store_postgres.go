// Copyright (c) 2026 Cinemateca. All rights reserved.
// Author: d.ramirez.baez@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dramirezb/cinemateca/internal/platform/apperr"
	"github.com/dramirezb/cinemateca/internal/platform/database/schema"
	"github.com/dramirezb/cinemateca/internal/platform/dberr"
	"github.com/dramirezb/cinemateca/internal/users/auth"
	"github.com/dramirezb/cinemateca/pkg/pagination"
)

// PostgresRepository persists accounts in users.account. It implements
// both [Repository] and [auth.UserRepository].
type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// userColumns is the stable select list shared by every account query.
func userColumns(alias string) string {
	t := schema.UserAccount
	columns := []string{
		t.ID, t.FirstName, t.LastName, t.Email, t.Password, t.Gender,
		t.Birthday, t.ProfileImageURL, t.Role, t.Status, t.CreatedAt, t.UpdatedAt,
	}
	for index, column := range columns {
		columns[index] = alias + column
	}
	return strings.Join(columns, ", ")
}

func scanUser(row interface{ Scan(dest ...any) error }) (*auth.User, error) {
	u := &auth.User{}
	err := row.Scan(
		&u.ID, &u.FirstName, &u.LastName, &u.Email, &u.PasswordHash, &u.Gender,
		&u.Birthday, &u.ProfileImageURL, &u.Role, &u.Status, &u.CreatedAt, &u.UpdatedAt,
	)
	return u, err
}

func (repository *PostgresRepository) ListUsers(context context.Context, page pagination.Params) ([]*auth.User, int, error) {

	countQuery := fmt.Sprintf(`SELECT COUNT(*) FROM %s;`, schema.UserAccount.Table)

	var total int
	if err := repository.db.QueryRow(context, countQuery).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_users")
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM %s u
		ORDER BY u.%s DESC
		LIMIT $1 OFFSET $2;
	`,
		userColumns("u."), schema.UserAccount.Table, schema.UserAccount.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, page.Limit, page.Offset())
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_users")
	}
	defer rows.Close()

	users := make([]*auth.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, dberr.Wrap(err, "scan_user")
		}
		users = append(users, u)
	}

	return users, total, nil
}

func (repository *PostgresRepository) FindByID(context context.Context, id string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s u WHERE u.%s = $1;`,
		userColumns("u."), schema.UserAccount.Table, schema.UserAccount.ID)

	u, err := scanUser(repository.db.QueryRow(context, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "get_user")
	}

	return u, nil
}

func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*auth.User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s u WHERE LOWER(u.%s) = LOWER($1);`,
		userColumns("u."), schema.UserAccount.Table, schema.UserAccount.Email)

	u, err := scanUser(repository.db.QueryRow(context, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperr.NotFound("User")
		}
		return nil, dberr.Wrap(err, "get_user_by_email")
	}

	return u, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
	`,
		t.Table,
		t.ID, t.FirstName, t.LastName, t.Email, t.Password, t.Gender,
		t.Birthday, t.ProfileImageURL, t.Role, t.Status, t.CreatedAt, t.UpdatedAt,
	)

	_, err := repository.db.Exec(context, query,
		user.ID, user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Gender,
		user.Birthday, user.ProfileImageURL, user.Role, user.Status, user.CreatedAt, user.UpdatedAt,
	)
	return dberr.Wrap(err, "create_user")
}

func (repository *PostgresRepository) Update(context context.Context, user *auth.User) error {
	t := schema.UserAccount
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $1, %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7,
		    %s = $8, %s = $9, %s = NOW()
		WHERE %s = $10;
	`,
		t.Table,
		t.FirstName, t.LastName, t.Email, t.Password, t.Gender,
		t.Birthday, t.ProfileImageURL, t.Role, t.Status,
		t.UpdatedAt,
		t.ID,
	)

	tag, err := repository.db.Exec(context, query,
		user.FirstName, user.LastName, user.Email, user.PasswordHash, user.Gender,
		user.Birthday, user.ProfileImageURL, user.Role, user.Status, user.ID,
	)
	if err != nil {
		return dberr.Wrap(err, "update_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1;`,
		schema.UserAccount.Table, schema.UserAccount.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_user")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
