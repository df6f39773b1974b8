package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"moderation-console/internal/contextkeys"
	"moderation-console/internal/core/domain"
	"moderation-console/internal/core/port"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const adColumns = `a.id, a.title, a.description, a.price, a.category, a.category_id, a.status, a.priority,
	a.created_at, a.updated_at, a.images, a.characteristics,
	a.seller_id, a.seller_name, a.seller_rating, a.seller_total_ads, a.seller_registered_at`

// querier - общее подмножество pgxpool.Pool и pgx.Tx.
type querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// AdRepository реализует AdRepositoryPort для PostgreSQL.
type AdRepository struct {
	pool *pgxpool.Pool
}

func NewAdRepository(pool *pgxpool.Pool) (*AdRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pgxpool.Pool cannot be nil")
	}
	return &AdRepository{
		pool: pool,
	}, nil
}

// EnsureSchema создает таблицы, если их нет.
func (r *AdRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// FindWithFilters ищет объявления по фильтрам с пагинацией.
func (r *AdRepository) FindWithFilters(ctx context.Context, filter domain.FilterState) (*domain.QueryResultPage, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAdRepository",
		"method":    "FindWithFilters",
		"page":      filter.Page,
		"limit":     filter.Limit,
	})

	limit := filter.Limit
	if limit <= 0 {
		limit = domain.PageSize
	}
	whereClause, args := applyFilters(filter)

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM ads a %s", whereClause)
	var totalCount int64
	if err := tx.QueryRow(ctx, countQuery, args...).Scan(&totalCount); err != nil {
		repoLogger.Error("Failed to count ads with filters", err, port.Fields{"query": countQuery})
		return nil, fmt.Errorf("failed to count ads with filters: %w", err)
	}

	result := &domain.QueryResultPage{
		Ads: []domain.Advertisement{},
		Pagination: domain.Pagination{
			CurrentPage:  filter.Page,
			TotalPages:   int((totalCount + int64(limit) - 1) / int64(limit)),
			TotalItems:   int(totalCount),
			ItemsPerPage: limit,
		},
	}
	if totalCount == 0 {
		return result, nil
	}

	var dataQuery strings.Builder
	dataQuery.WriteString("SELECT ")
	dataQuery.WriteString(adColumns)
	dataQuery.WriteString(" FROM ads a ")
	dataQuery.WriteString(whereClause)
	dataQuery.WriteString(" ")
	dataQuery.WriteString(orderClause(filter.SortBy, filter.SortOrder))

	limitOffsetArgs := append(args, limit, filter.Offset())
	limitOffsetQuery := fmt.Sprintf("%s LIMIT $%d OFFSET $%d", dataQuery.String(), len(args)+1, len(args)+2)

	rows, err := tx.Query(ctx, limitOffsetQuery, limitOffsetArgs...)
	if err != nil {
		repoLogger.Error("Failed to find ads with filters", err, port.Fields{"query": dataQuery.String()})
		return nil, fmt.Errorf("failed to find ads with filters: %w", err)
	}
	ads, err := scanAds(rows)
	if err != nil {
		return nil, err
	}

	if err := attachHistory(ctx, tx, ads); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Debug("Ads page loaded", port.Fields{"count": len(ads), "total_count": totalCount})
	result.Ads = ads
	return result, nil
}

func (r *AdRepository) FindByID(ctx context.Context, id int64) (*domain.Advertisement, error) {
	return findByID(ctx, r.pool, id)
}

// ApplyDecision в одной транзакции меняет статус и добавляет запись в историю.
func (r *AdRepository) ApplyDecision(ctx context.Context, id int64, status domain.AdStatus, entry domain.ModerationHistoryEntry) (*domain.Advertisement, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAdRepository",
		"method":    "ApplyDecision",
		"ad_id":     id,
		"status":    status,
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `UPDATE ads SET status = $1, updated_at = $2 WHERE id = $3`, string(status), entry.Timestamp, id)
	if err != nil {
		repoLogger.Error("Failed to update ad status", err, nil)
		return nil, fmt.Errorf("failed to update ad status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return nil, domain.ErrAdNotFound
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO moderation_history (id, ad_id, moderator_id, moderator_name, action, reason, comment, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		entry.ID, id, entry.ModeratorID, entry.ModeratorName, string(entry.Action), entry.Reason, entry.Comment, entry.Timestamp,
	)
	if err != nil {
		repoLogger.Error("Failed to insert history entry", err, nil)
		return nil, fmt.Errorf("failed to insert history entry: %w", err)
	}

	ad, err := findByID(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Decision applied", port.Fields{"entry_id": entry.ID.String()})
	return ad, nil
}

func (r *AdRepository) HistorySince(ctx context.Context, since time.Time) ([]port.HistoryRecord, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT h.ad_id, a.category, a.created_at,
			h.id, h.moderator_id, h.moderator_name, h.action, h.reason, h.comment, h.created_at
		FROM moderation_history h
		JOIN ads a ON a.id = h.ad_id
		WHERE h.created_at >= $1
		ORDER BY h.created_at ASC, h.id ASC`, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	records := make([]port.HistoryRecord, 0)
	for rows.Next() {
		var rec port.HistoryRecord
		var action string
		if err := rows.Scan(
			&rec.AdID, &rec.Category, &rec.AdCreatedAt,
			&rec.Entry.ID, &rec.Entry.ModeratorID, &rec.Entry.ModeratorName, &action,
			&rec.Entry.Reason, &rec.Entry.Comment, &rec.Entry.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan history record: %w", err)
		}
		rec.Entry.Action = domain.HistoryAction(action)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate history: %w", err)
	}
	return records, nil
}

// SeedIfEmpty заливает объявления через COPY, если таблица пуста.
func (r *AdRepository) SeedIfEmpty(ctx context.Context, ads []domain.Advertisement) (int, error) {
	logger := contextkeys.LoggerFromContext(ctx)
	repoLogger := logger.WithFields(port.Fields{
		"component": "PostgresAdRepository",
		"method":    "SeedIfEmpty",
	})

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var existing int64
	if err := tx.QueryRow(ctx, "SELECT COUNT(*) FROM ads").Scan(&existing); err != nil {
		return 0, fmt.Errorf("failed to count ads: %w", err)
	}
	if existing > 0 {
		repoLogger.Debug("Ads table is not empty, skipping seed", port.Fields{"existing": existing})
		return 0, nil
	}

	adRows := make([][]interface{}, 0, len(ads))
	historyRows := make([][]interface{}, 0)
	for _, ad := range ads {
		images := ad.Images
		if images == nil {
			images = []string{}
		}
		characteristics := ad.Characteristics
		if characteristics == nil {
			characteristics = map[string]string{}
		}
		adRows = append(adRows, []interface{}{
			ad.ID, ad.Title, ad.Description, ad.Price, ad.Category, ad.CategoryID, string(ad.Status), string(ad.Priority),
			ad.CreatedAt, ad.UpdatedAt, images, characteristics,
			ad.Seller.ID, ad.Seller.Name, ad.Seller.Rating, ad.Seller.TotalAds, ad.Seller.RegisteredAt,
		})
		for _, h := range ad.ModerationHistory {
			historyRows = append(historyRows, []interface{}{
				h.ID, ad.ID, h.ModeratorID, h.ModeratorName, string(h.Action), h.Reason, h.Comment, h.Timestamp,
			})
		}
	}

	_, err = tx.CopyFrom(ctx,
		pgx.Identifier{"ads"},
		[]string{
			"id", "title", "description", "price", "category", "category_id", "status", "priority",
			"created_at", "updated_at", "images", "characteristics",
			"seller_id", "seller_name", "seller_rating", "seller_total_ads", "seller_registered_at",
		},
		pgx.CopyFromRows(adRows),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to copy ads: %w", err)
	}

	if len(historyRows) > 0 {
		_, err = tx.CopyFrom(ctx,
			pgx.Identifier{"moderation_history"},
			[]string{"id", "ad_id", "moderator_id", "moderator_name", "action", "reason", "comment", "created_at"},
			pgx.CopyFromRows(historyRows),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to copy history: %w", err)
		}
	}

	// id вставлены явно, последовательность нужно догнать.
	if _, err := tx.Exec(ctx, "SELECT setval(pg_get_serial_sequence('ads', 'id'), COALESCE((SELECT MAX(id) FROM ads), 1))"); err != nil {
		return 0, fmt.Errorf("failed to reset ads sequence: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	repoLogger.Info("Ads seeded", port.Fields{"count": len(adRows), "history": len(historyRows)})
	return len(adRows), nil
}

func findByID(ctx context.Context, q querier, id int64) (*domain.Advertisement, error) {
	rows, err := q.Query(ctx, fmt.Sprintf("SELECT %s FROM ads a WHERE a.id = $1", adColumns), id)
	if err != nil {
		return nil, fmt.Errorf("failed to query ad %d: %w", id, err)
	}
	ads, err := scanAds(rows)
	if err != nil {
		return nil, err
	}
	if len(ads) == 0 {
		return nil, domain.ErrAdNotFound
	}
	if err := attachHistory(ctx, q, ads); err != nil {
		return nil, err
	}
	return &ads[0], nil
}

func scanAds(rows pgx.Rows) ([]domain.Advertisement, error) {
	defer rows.Close()

	ads := make([]domain.Advertisement, 0)
	for rows.Next() {
		var ad domain.Advertisement
		var status, priority string
		if err := rows.Scan(
			&ad.ID, &ad.Title, &ad.Description, &ad.Price, &ad.Category, &ad.CategoryID, &status, &priority,
			&ad.CreatedAt, &ad.UpdatedAt, &ad.Images, &ad.Characteristics,
			&ad.Seller.ID, &ad.Seller.Name, &ad.Seller.Rating, &ad.Seller.TotalAds, &ad.Seller.RegisteredAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ad: %w", err)
		}
		ad.Status = domain.AdStatus(status)
		ad.Priority = domain.AdPriority(priority)
		ads = append(ads, ad)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate ads: %w", err)
	}
	return ads, nil
}

// attachHistory подгружает историю модерации одним запросом на всю страницу.
func attachHistory(ctx context.Context, q querier, ads []domain.Advertisement) error {
	if len(ads) == 0 {
		return nil
	}
	ids := make([]int64, len(ads))
	index := make(map[int64]int, len(ads))
	for i, ad := range ads {
		ids[i] = ad.ID
		index[ad.ID] = i
	}

	rows, err := q.Query(ctx, `
		SELECT ad_id, id, moderator_id, moderator_name, action, reason, comment, created_at
		FROM moderation_history
		WHERE ad_id = ANY($1)
		ORDER BY created_at ASC, id ASC`, ids)
	if err != nil {
		return fmt.Errorf("failed to query history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var adID int64
		var entry domain.ModerationHistoryEntry
		var action string
		if err := rows.Scan(&adID, &entry.ID, &entry.ModeratorID, &entry.ModeratorName, &action,
			&entry.Reason, &entry.Comment, &entry.Timestamp); err != nil {
			return fmt.Errorf("failed to scan history entry: %w", err)
		}
		entry.Action = domain.HistoryAction(action)
		if i, ok := index[adID]; ok {
			ads[i].ModerationHistory = append(ads[i].ModerationHistory, entry)
		}
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate history: %w", err)
	}
	return nil
}
