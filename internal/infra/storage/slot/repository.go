package slot

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	"github.com/m04kA/SMC-SalonBooking/pkg/dbmetrics"
	"github.com/m04kA/SMC-SalonBooking/pkg/psqlbuilder"
)

// код PostgreSQL unique_violation
const uniqueViolationCode = "23505"

var slotColumns = []string{
	"s.id",
	"s.stylist_id",
	"s.slot_date",
	"s.start_time",
	"s.end_time",
	"s.is_offered",
	"s.appointment_id",
	"s.client_id",
	"s.service_id",
	"s.created_at",
	"s.updated_at",
}

// Repository репозиторий слотов стилистов
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория слотов
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// Create создает слот на позиции сетки
func (r *Repository) Create(ctx context.Context, slot *domain.Slot) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("slots").
		Columns(
			"stylist_id",
			"slot_date",
			"start_time",
			"end_time",
			"is_offered",
		).
		Values(
			slot.StylistID,
			slot.Date,
			slot.StartTime,
			slot.EndTime,
			slot.IsOffered,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: Create - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&slot.ID,
		&createdAt,
		&updatedAt,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
		return nil, ErrSlotAlreadyExists
	}
	if err != nil {
		return nil, fmt.Errorf("%w: Create - execute insert: %v", ErrExecQuery, err)
	}

	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return slot, nil
}

// GetByID получает слот по ID
// Внутри транзакции строка блокируется (FOR UPDATE)
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots s").
		Where(squirrel.Eq{"s.id": id})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	slot, err := scanSlot(executor.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSlotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - scan slot: %v", ErrScanRow, err)
	}

	return slot, nil
}

// GetByIDs получает слоты по списку ID в хронологическом порядке
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetByIDs(ctx context.Context, ids []int64) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots s").
		Where(squirrel.Expr("s.id = ANY(?)", pq.Array(ids))).
		OrderBy("s.slot_date ASC, s.start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByIDs - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByStylistAndDate получает все слоты стилиста на дату, отсортированные по времени начала
func (r *Repository) GetByStylistAndDate(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(slotColumns...).
		From("slots s").
		Where(squirrel.Eq{
			"s.stylist_id": stylistID,
			"s.slot_date":  domain.DateOnly(date),
		}).
		OrderBy("s.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistAndDate - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByStylistAndDate - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetByAppointmentID получает все слоты записи
// Внутри транзакции строки блокируются (FOR UPDATE)
func (r *Repository) GetByAppointmentID(ctx context.Context, appointmentID uuid.UUID) ([]*domain.Slot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(slotColumns...).
		From("slots s").
		Where(squirrel.Eq{"s.appointment_id": appointmentID}).
		OrderBy("s.slot_date ASC, s.start_time ASC")

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetByAppointmentID - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	return scanSlots(rows)
}

// GetReservedByClient получает забронированные клиентом слоты с данными стилиста, салона и услуги
func (r *Repository) GetReservedByClient(ctx context.Context, clientID int64) ([]*domain.ReservedSlot, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	columns := append(append([]string{}, slotColumns...),
		"st.name",
		"sa.name",
		"sv.name",
		"sv.price",
	)

	query, args, err := psqlbuilder.Select(columns...).
		From("slots s").
		Join("stylists st ON st.id = s.stylist_id").
		Join("salons sa ON sa.id = st.salon_id").
		Join("services sv ON sv.id = s.service_id").
		Where(squirrel.Eq{"s.client_id": clientID}).
		Where(squirrel.NotEq{"s.appointment_id": nil}).
		OrderBy("s.slot_date ASC, s.start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReservedByClient - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: GetReservedByClient - execute query: %v", ErrExecQuery, err)
	}
	defer rows.Close()

	result := make([]*domain.ReservedSlot, 0)
	for rows.Next() {
		var reserved domain.ReservedSlot
		var appointmentID uuid.NullUUID
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&reserved.ID,
			&reserved.StylistID,
			&reserved.Date,
			&reserved.StartTime,
			&reserved.EndTime,
			&reserved.IsOffered,
			&appointmentID,
			&reserved.ClientID,
			&reserved.ServiceID,
			&createdAt,
			&updatedAt,
			&reserved.StylistName,
			&reserved.SalonName,
			&reserved.ServiceName,
			&reserved.ServicePrice,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: GetReservedByClient - scan slot: %v", ErrScanRow, err)
		}

		if appointmentID.Valid {
			reserved.AppointmentID = &appointmentID.UUID
		}
		reserved.CreatedAt = createdAt.Time
		reserved.UpdatedAt = updatedAt.Time
		result = append(result, &reserved)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: GetReservedByClient - rows error: %v", ErrScanRow, err)
	}

	return result, nil
}

// Reserve привязывает свободные слоты к записи клиента.
// Обновляются только предлагаемые слоты без брони; возвращает число обновленных строк.
func (r *Repository) Reserve(ctx context.Context, ids []int64, appointmentID uuid.UUID, clientID, serviceID int64) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("appointment_id", appointmentID).
		Set("client_id", clientID).
		Set("service_id", serviceID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Expr("id = ANY(?)", pq.Array(ids))).
		Where(squirrel.Eq{
			"appointment_id": nil,
			"client_id":      nil,
			"service_id":     nil,
			"is_offered":     true,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Reserve - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "Reserve", query, args)
}

// Release освобождает все слоты записи и снова делает их предлагаемыми
func (r *Repository) Release(ctx context.Context, appointmentID uuid.UUID) (int64, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("appointment_id", nil).
		Set("client_id", nil).
		Set("service_id", nil).
		Set("is_offered", true).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: Release - build update query: %v", ErrBuildQuery, err)
	}

	return r.exec(ctx, executor, "Release", query, args)
}

// SetOffered открывает или закрывает свободный слот
func (r *Repository) SetOffered(ctx context.Context, id int64, offered bool) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("slots").
		Set("is_offered", offered).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "appointment_id": nil}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: SetOffered - build update query: %v", ErrBuildQuery, err)
	}

	rowsAffected, err := r.exec(ctx, executor, "SetOffered", query, args)
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrSlotNotFound
	}

	return nil
}

func (r *Repository) exec(ctx context.Context, executor DBExecutor, op, query string, args []interface{}) (int64, error) {
	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("%w: %s - execute update: %v", ErrExecQuery, op, err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%w: %s - get rows affected: %v", ErrExecQuery, op, err)
	}

	return rowsAffected, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanSlot(row rowScanner) (*domain.Slot, error) {
	var slot domain.Slot
	var appointmentID uuid.NullUUID
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&slot.ID,
		&slot.StylistID,
		&slot.Date,
		&slot.StartTime,
		&slot.EndTime,
		&slot.IsOffered,
		&appointmentID,
		&slot.ClientID,
		&slot.ServiceID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if appointmentID.Valid {
		slot.AppointmentID = &appointmentID.UUID
	}
	slot.CreatedAt = createdAt.Time
	slot.UpdatedAt = updatedAt.Time

	return &slot, nil
}

func scanSlots(rows *sql.Rows) ([]*domain.Slot, error) {
	slots := make([]*domain.Slot, 0)
	for rows.Next() {
		slot, err := scanSlot(rows)
		if err != nil {
			return nil, fmt.Errorf("%w: scan slot: %v", ErrScanRow, err)
		}
		slots = append(slots, slot)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: rows error: %v", ErrScanRow, err)
	}

	return slots, nil
}
