package catalog

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"embed"
	"errors"
	"fmt"
	"strings"

	"github.com/fjod/go_cart/storefront/internal/domain"
	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/shopspring/decimal"
	sqlitedriver "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrations embed.FS

// fold lowercases text with Go's Unicode tables. SQLite's own lower() only
// folds ASCII, so a search for "É" would miss "é".
func init() {
	err := sqlitedriver.RegisterDeterministicScalarFunction("fold", 1,
		func(_ *sqlitedriver.FunctionContext, args []driver.Value) (driver.Value, error) {
			switch v := args[0].(type) {
			case nil:
				return nil, nil
			case string:
				return strings.ToLower(v), nil
			case []byte:
				return strings.ToLower(string(v)), nil
			default:
				return nil, fmt.Errorf("fold: unsupported argument type %T", v)
			}
		})
	if err != nil {
		panic(err)
	}
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrFlightNotFound  = errors.New("flight not found")
)

// Repository reads listings from the embedded sqlite catalog.
type Repository struct {
	db *sql.DB
}

// RepoInterface is what the catalog service needs from storage.
type RepoInterface interface {
	SearchProducts(ctx context.Context, f Filter) ([]domain.Product, error)
	GetProduct(ctx context.Context, id string) (*domain.Product, error)
	SearchFlights(ctx context.Context, q FlightQuery) ([]domain.Flight, error)
	GetFlight(ctx context.Context, id string) (*domain.Flight, error)
	Close() error
}

func NewRepository(dbPath string) (*Repository, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// an in-memory database lives only as long as its connection
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Repository{db: db}, nil
}

// RunMigrations creates the schema and seeds the mock listings.
func (r *Repository) RunMigrations() error {
	src, err := iofs.New(migrations, "migrations")
	if err != nil {
		return fmt.Errorf("could not open embedded migrations: %w", err)
	}

	driver, err := sqlite.WithInstance(r.db, &sqlite.Config{})
	if err != nil {
		return fmt.Errorf("could not create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", driver)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

func (r *Repository) SearchProducts(ctx context.Context, f Filter) ([]domain.Product, error) {
	term := likePattern(f.Term)
	category := f.category()
	query := `
		SELECT id, title, price, original_price, image, condition, location,
		       seller, rating, category, description
		FROM products
		WHERE (? = '' OR fold(title) LIKE ? ESCAPE '\' OR fold(description) LIKE ? ESCAPE '\')
		  AND (? = '' OR category = ?)
		ORDER BY position
	`

	rows, err := r.db.QueryContext(ctx, query, f.Term, term, term, category, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id string) (*domain.Product, error) {
	query := `
		SELECT id, title, price, original_price, image, condition, location,
		       seller, rating, category, description
		FROM products
		WHERE id = ?
	`

	p, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *Repository) SearchFlights(ctx context.Context, q FlightQuery) ([]domain.Flight, error) {
	query := `
		SELECT id, airline, departure_time, arrival_time, duration_minutes, price,
		       stops, from_code, to_code, date, logo, rating
		FROM flights
		WHERE (? = '' OR from_code = upper(?))
		  AND (? = '' OR to_code = upper(?))
		ORDER BY ` + q.orderBy()

	from := strings.TrimSpace(q.From)
	to := strings.TrimSpace(q.To)
	rows, err := r.db.QueryContext(ctx, query, from, from, to, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query flights: %w", err)
	}
	defer rows.Close()

	flights := make([]domain.Flight, 0)
	for rows.Next() {
		f, err := scanFlight(rows)
		if err != nil {
			return nil, err
		}
		flights = append(flights, *f)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return flights, nil
}

func (r *Repository) GetFlight(ctx context.Context, id string) (*domain.Flight, error) {
	query := `
		SELECT id, airline, departure_time, arrival_time, duration_minutes, price,
		       stops, from_code, to_code, date, logo, rating
		FROM flights
		WHERE id = ?
	`

	f, err := scanFlight(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFlightNotFound
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

func (r *Repository) Close() error {
	return r.db.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanProduct(row scanner) (*domain.Product, error) {
	var (
		p        domain.Product
		original decimal.NullDecimal
	)
	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Price,
		&original,
		&p.Image,
		&p.Condition,
		&p.Location,
		&p.Seller,
		&p.Rating,
		&p.Category,
		&p.Description,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan product: %w", err)
	}
	if original.Valid {
		p.OriginalPrice = &original.Decimal
	}
	return &p, nil
}

func scanFlight(row scanner) (*domain.Flight, error) {
	var f domain.Flight
	err := row.Scan(
		&f.ID,
		&f.Airline,
		&f.DepartureTime,
		&f.ArrivalTime,
		&f.DurationMin,
		&f.Price,
		&f.Stops,
		&f.From,
		&f.To,
		&f.Date,
		&f.Logo,
		&f.Rating,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan flight: %w", err)
	}
	return &f, nil
}

// likePattern folds the term like fold() and escapes LIKE wildcards.
func likePattern(term string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(strings.ToLower(term)) + "%"
}
