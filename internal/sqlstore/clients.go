package sqlstore

import (
	"context"

	"shop-backoffice/internal/shop"
)

func (s *Store) CreateClient(ctx context.Context, c *shop.Client) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO clients (id, name, email, phone) VALUES ($1, $2, $3, $4)`,
		c.ID, c.Name, c.Email, c.Phone)
	if isDuplicate(err) {
		return shop.ErrDuplicateEmail
	}
	return err
}

func (s *Store) GetClient(ctx context.Context, id string) (*shop.Client, error) {
	var c shop.Client
	row := s.db.QueryRow(ctx,
		`SELECT id, name, email, COALESCE(phone, '') FROM clients WHERE id = $1`, id)
	if err := row.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) ListClients(ctx context.Context) ([]shop.Client, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, email, COALESCE(phone, '') FROM clients ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []shop.Client
	for rows.Next() {
		var c shop.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (s *Store) CreateEmployee(ctx context.Context, e *shop.Employee) error {
	_, err := s.db.Exec(ctx,
		`INSERT INTO employees (id, name, position, hire_date) VALUES ($1, $2, $3, $4)`,
		e.ID, e.Name, e.Position, e.HireDate)
	return err
}

func (s *Store) GetEmployee(ctx context.Context, id string) (*shop.Employee, error) {
	var e shop.Employee
	row := s.db.QueryRow(ctx,
		`SELECT id, name, position, hire_date FROM employees WHERE id = $1`, id)
	if err := row.Scan(&e.ID, &e.Name, &e.Position, &e.HireDate); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (s *Store) ListEmployees(ctx context.Context) ([]shop.Employee, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, name, position, hire_date FROM employees ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []shop.Employee
	for rows.Next() {
		var e shop.Employee
		if err := rows.Scan(&e.ID, &e.Name, &e.Position, &e.HireDate); err != nil {
			return nil, err
		}
		employees = append(employees, e)
	}
	return employees, rows.Err()
}
