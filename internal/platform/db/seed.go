package db

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hrms/internal/domain/auth"
	"hrms/internal/platform/config"
)

// Seed provisions roles, permissions, the bootstrap admin account and the
// global default evaluation criteria. Every step is idempotent.
func Seed(ctx context.Context, pool *pgxpool.Pool, cfg config.Config) error {
	if err := ensurePermissions(ctx, pool); err != nil {
		return err
	}

	roleIDs, err := ensureRoles(ctx, pool)
	if err != nil {
		return err
	}

	if err := ensureRolePermissions(ctx, pool, roleIDs); err != nil {
		return err
	}

	if cfg.SeedAdminEmail != "" {
		if err := ensureAdminUser(ctx, pool, roleIDs[auth.RoleAdmin], cfg.SeedAdminEmail, cfg.SeedAdminPassword); err != nil {
			return err
		}
	}

	return ensureDefaultCriteria(ctx, pool)
}

func ensurePermissions(ctx context.Context, pool *pgxpool.Pool) error {
	for _, perm := range auth.DefaultPermissions {
		_, err := pool.Exec(ctx, "INSERT INTO permissions (key) VALUES ($1) ON CONFLICT (key) DO NOTHING", perm)
		if err != nil {
			return err
		}
	}
	return nil
}

func ensureRoles(ctx context.Context, pool *pgxpool.Pool) (map[string]string, error) {
	roleIDs := map[string]string{}
	for roleName := range auth.RolePermissions {
		var id string
		err := pool.QueryRow(ctx, "SELECT id FROM roles WHERE name = $1", roleName).Scan(&id)
		if err == nil {
			roleIDs[roleName] = id
			continue
		}

		err = pool.QueryRow(ctx, "INSERT INTO roles (name) VALUES ($1) RETURNING id", roleName).Scan(&id)
		if err != nil {
			return nil, err
		}
		roleIDs[roleName] = id
	}
	return roleIDs, nil
}

func ensureRolePermissions(ctx context.Context, pool *pgxpool.Pool, roleIDs map[string]string) error {
	permMap := map[string]string{}
	rows, err := pool.Query(ctx, "SELECT id, key FROM permissions")
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var id, key string
		if err := rows.Scan(&id, &key); err != nil {
			return err
		}
		permMap[key] = id
	}

	for roleName, perms := range auth.RolePermissions {
		roleID, ok := roleIDs[roleName]
		if !ok {
			continue
		}
		for _, perm := range perms {
			permID, ok := permMap[perm]
			if !ok {
				continue
			}
			if _, err := pool.Exec(ctx, `
        INSERT INTO role_permissions (role_id, permission_id)
        VALUES ($1, $2)
        ON CONFLICT (role_id, permission_id) DO NOTHING
      `, roleID, permID); err != nil {
				return err
			}
		}
	}
	return nil
}

func ensureAdminUser(ctx context.Context, pool *pgxpool.Pool, roleID, email, password string) error {
	var id string
	err := pool.QueryRow(ctx, "SELECT id FROM users WHERE email = $1", email).Scan(&id)
	if err == nil {
		return nil
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return err
	}
	_, err = pool.Exec(ctx, `
    INSERT INTO users (email, password_hash, role_id, status)
    VALUES ($1, $2, $3, 'active')
  `, email, hash, roleID)
	return err
}

func ensureDefaultCriteria(ctx context.Context, pool *pgxpool.Pool) error {
	defaults := []struct {
		Title       string
		Description string
		Order       int
	}{
		{"Quality of Work", "Accuracy, thoroughness and consistency of deliverables", 1},
		{"Teamwork", "Collaboration and support of colleagues", 2},
		{"Communication", "Clarity and timeliness of written and spoken communication", 3},
		{"Initiative", "Self-direction and ownership beyond assigned duties", 4},
	}
	for _, d := range defaults {
		if _, err := pool.Exec(ctx, `
      INSERT INTO evaluation_criteria (period_id, title, description, type, is_default, order_index)
      SELECT NULL, $1, $2, 'rating', TRUE, $3
      WHERE NOT EXISTS (
        SELECT 1 FROM evaluation_criteria WHERE period_id IS NULL AND title = $1
      )
    `, d.Title, d.Description, d.Order); err != nil {
			return err
		}
	}
	return nil
}
