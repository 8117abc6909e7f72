package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// Repository справочник услуг и стилистов (только чтение)
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория справочника
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetService получает услугу по ID
func (r *Repository) GetService(ctx context.Context, id int64) (*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "slot_span").
		From("services").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetService - build select query: %v", ErrBuildQuery, err)
	}

	var service domain.Service
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&service.ID,
		&service.Name,
		&service.Price,
		&service.SlotSpan,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrServiceNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetService - scan service: %v", ErrScanRow, err)
	}

	return &service, nil
}

// ListServices получает все услуги
func (r *Repository) ListServices(ctx context.Context) ([]*domain.Service, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("id", "name", "price", "slot_span").
		From("services").
		OrderBy("name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListServices - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	services := make([]*domain.Service, 0)
	for rows.Next() {
		var service domain.Service
		if err := rows.Scan(&service.ID, &service.Name, &service.Price, &service.SlotSpan); err != nil {
			return nil, fmt.Errorf("%w: ListServices - scan service: %v", ErrScanRow, err)
		}
		services = append(services, &service)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListServices - rows error: %v", ErrScanRow, err)
	}

	return services, nil
}

// GetStylist получает стилиста по ID вместе с названием салона
func (r *Repository) GetStylist(ctx context.Context, id int64) (*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("st.id", "st.salon_id", "st.name", "sa.name").
		From("stylists st").
		Join("salons sa ON sa.id = st.salon_id").
		Where(squirrel.Eq{"st.id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - build select query: %v", ErrBuildQuery, err)
	}

	var stylist domain.Stylist
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&stylist.ID,
		&stylist.SalonID,
		&stylist.Name,
		&stylist.SalonName,
	)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrStylistNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetStylist - scan stylist: %v", ErrScanRow, err)
	}

	return &stylist, nil
}

// ListStylistsBySalon получает стилистов салона
func (r *Repository) ListStylistsBySalon(ctx context.Context, salonID int64) ([]*domain.Stylist, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("st.id", "st.salon_id", "st.name", "sa.name").
		From("stylists st").
		Join("salons sa ON sa.id = st.salon_id").
		Where(squirrel.Eq{"st.salon_id": salonID}).
		OrderBy("st.name ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistsBySalon - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ListStylistsBySalon - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	stylists := make([]*domain.Stylist, 0)
	for rows.Next() {
		var stylist domain.Stylist
		if err := rows.Scan(&stylist.ID, &stylist.SalonID, &stylist.Name, &stylist.SalonName); err != nil {
			return nil, fmt.Errorf("%w: ListStylistsBySalon - scan stylist: %v", ErrScanRow, err)
		}
		stylists = append(stylists, &stylist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: ListStylistsBySalon - rows error: %v", ErrScanRow, err)
	}

	return stylists, nil
}
