package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"wareongo/internal/model"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// PostgresRepository handles warehouse queries and search logging
type PostgresRepository struct {
	db *sqlx.DB
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(dsn string, maxConn, maxIdleConn int) (*PostgresRepository, error) {
	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	db.SetMaxOpenConns(maxConn)
	db.SetMaxIdleConns(maxIdleConn)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresRepository{db: db}, nil
}

// Close closes the database connection
func (r *PostgresRepository) Close() error {
	return r.db.Close()
}

// Ping checks the connection for health probes
func (r *PostgresRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

const warehouseColumns = `w.id, w."warehouseType", w.city, w.state, w."totalSpaceSqft", w."ratePerSqft",
			w."numberOfDocks", w."clearHeightFt", w.compliances,
			wd."fireNocAvailable", wd."fireSafetyMeasures", wd."landType"`

// numericText guards CASTs on free-text numeric columns
const numericText = `'^[0-9]+(\.[0-9]+)?$'`

// queryBuilder accumulates WHERE clauses with positional arguments
type queryBuilder struct {
	clauses []string
	args    []interface{}
}

// add binds arg to the last ? in clause; earlier ones belong to regex literals
func (b *queryBuilder) add(clause string, arg interface{}) {
	b.args = append(b.args, arg)
	i := strings.LastIndex(clause, "?")
	b.clauses = append(b.clauses, clause[:i]+fmt.Sprintf("$%d", len(b.args))+clause[i+1:])
}

func (b *queryBuilder) numeric(column, op string, v int) {
	b.add(fmt.Sprintf(`%s ~ %s AND CAST(CAST(%s AS NUMERIC) AS INTEGER) %s ?`, column, numericText, column, op), v)
}

func (b *queryBuilder) ilike(column, v string) {
	b.add(column+" ILIKE ?", "%"+v+"%")
}

// buildWarehouseQuery renders the filtered, paginated listing query.
// Nil filter fields impose no constraint; results are newest first.
func buildWarehouseQuery(filters *model.WarehouseFilters, limit, offset int) (string, []interface{}) {
	b := &queryBuilder{clauses: []string{"1=1"}}

	if filters != nil {
		switch {
		case len(filters.Cities) > 0:
			b.add("w.city ILIKE ANY(?)", pq.Array(filters.Cities))
		case filters.State != nil:
			b.ilike("w.state", *filters.State)
		}

		// totalSpaceSqft is an array of available unit sizes
		if filters.SizeMin != nil {
			b.add(`EXISTS (SELECT 1 FROM unnest(w."totalSpaceSqft") AS s WHERE s >= ?)`, *filters.SizeMin)
		}
		if filters.SizeMax != nil {
			b.add(`EXISTS (SELECT 1 FROM unnest(w."totalSpaceSqft") AS s WHERE s <= ?)`, *filters.SizeMax)
		}
		if filters.WarehouseType != nil {
			b.ilike(`w."warehouseType"`, *filters.WarehouseType)
		}
		if filters.RateMin != nil {
			b.numeric(`w."ratePerSqft"`, ">=", *filters.RateMin)
		}
		if filters.RateMax != nil {
			b.numeric(`w."ratePerSqft"`, "<=", *filters.RateMax)
		}
		if filters.MinDocks != nil {
			b.numeric(`w."numberOfDocks"`, ">=", *filters.MinDocks)
		}
		if filters.MinClearHeight != nil {
			b.numeric(`w."clearHeightFt"`, ">=", *filters.MinClearHeight)
		}
		if filters.Compliances != nil {
			b.ilike("w.compliances", *filters.Compliances)
		}
		if filters.Availability != nil {
			b.ilike("w.availability", *filters.Availability)
		}
		if filters.Zone != nil {
			b.ilike("w.zone", *filters.Zone)
		}
		if filters.IsBroker != nil {
			broker := "No"
			if *filters.IsBroker {
				broker = "Yes"
			}
			b.add(`w."isBroker" ILIKE ?`, broker)
		}
		if filters.FireNOCRequired {
			b.add(`wd."fireNocAvailable" = ?`, true)
		}
		if filters.LandTypeIndustrial {
			b.add(`wd."landType" ILIKE ?`, "%industrial%")
		}
	}

	n := len(b.args)
	query := fmt.Sprintf(`
		SELECT %s
		FROM "Warehouse" w
		LEFT JOIN "WarehouseData" wd ON w.id = wd."warehouseId"
		WHERE %s
		ORDER BY w.id DESC
		LIMIT $%d OFFSET $%d
	`, warehouseColumns, strings.Join(b.clauses, " AND "), n+1, n+2)

	return query, append(b.args, limit, offset)
}

// SearchWarehouses returns one page of warehouses matching filters
func (r *PostgresRepository) SearchWarehouses(
	ctx context.Context,
	filters *model.WarehouseFilters,
	limit, offset int,
) ([]model.Warehouse, error) {
	query, args := buildWarehouseQuery(filters, limit, offset)

	var warehouses []model.Warehouse
	if err := r.db.SelectContext(ctx, &warehouses, query, args...); err != nil {
		return nil, fmt.Errorf("failed to fetch warehouses: %w", err)
	}
	return warehouses, nil
}

// LogSearch records one executed search
func (r *PostgresRepository) LogSearch(ctx context.Context, entry *model.SearchLogEntry) error {
	filters, err := sonic.Marshal(entry.Filters)
	if err != nil {
		return fmt.Errorf("failed to encode filters: %w", err)
	}

	logQuery := `
		INSERT INTO search_logs (filters, page, result_count, returned_warehouse_ids, response_time_ms)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = r.db.ExecContext(ctx, logQuery,
		string(filters), entry.Page, entry.ResultCount, pq.Array(entry.WarehouseIDs), entry.ResponseTimeMs)
	if err != nil {
		return fmt.Errorf("failed to log search: %w", err)
	}
	return nil
}
