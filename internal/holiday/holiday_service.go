package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	holidayerrors "go-portal-rh/internal/holiday/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	YearKeyPrefix = "holiday:year:"
	CacheTTL      = time.Hour
)

func YearKey(year int) string {
	return YearKeyPrefix + strconv.Itoa(year)
}

//go:generate mockgen -source=holiday_service.go -destination=mock/holiday_service_mock.go -package=mock
type Service interface {
	Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error)
	ListByYear(ctx context.Context, year int) ([]HolidayResponse, error)
	// DatesInYear returns the holiday dates of year at UTC midnight,
	// ascending, with recurring holidays projected onto year.
	DatesInYear(ctx context.Context, year int) ([]time.Time, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("holiday.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("holiday.service")
	}
	return &service{repo: repo, rdb: rdb, sf: &singleflight.Group{}, logger: l}
}

func (s *service) Create(ctx context.Context, req CreateHolidayRequest) (HolidayResponse, error) {
	date, err := time.Parse(DateLayout, req.Date)
	if err != nil {
		return HolidayResponse{}, holidayerrors.ErrInvalidDate
	}

	h := &Holiday{
		ID:        uuid.New(),
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	}
	if err := s.repo.Create(ctx, h); err != nil {
		if isUniqueViolation(err) {
			return HolidayResponse{}, holidayerrors.ErrDuplicateDate
		}
		return HolidayResponse{}, err
	}

	if s.rdb != nil {
		// Recurring holidays touch every cached year, so drop them all.
		keys := []string{YearKey(date.Year())}
		if h.Recurring {
			if found, err := s.rdb.Keys(ctx, YearKeyPrefix+"*").Result(); err == nil {
				keys = found
			}
		}
		if len(keys) > 0 {
			if err := s.rdb.Del(ctx, keys...).Err(); err != nil {
				s.logger.Warn("holiday cache invalidation failed", zap.Error(err))
			}
		}
	}

	return mapToResponse(*h), nil
}

func (s *service) ListByYear(ctx context.Context, year int) ([]HolidayResponse, error) {
	holidays, err := s.repo.FindForYear(ctx, year)
	if err != nil {
		return nil, err
	}

	resp := make([]HolidayResponse, 0, len(holidays))
	for _, h := range holidays {
		if d, ok := h.OnYear(year); ok {
			r := mapToResponse(h)
			r.Date = d.Format(DateLayout)
			resp = append(resp, r)
		}
	}
	sort.Slice(resp, func(i, j int) bool { return resp[i].Date < resp[j].Date })
	return resp, nil
}

func (s *service) DatesInYear(ctx context.Context, year int) ([]time.Time, error) {
	key := YearKey(year)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, key).Result(); err == nil {
			var raw []string
			if json.Unmarshal([]byte(cached), &raw) == nil {
				return parseDates(raw)
			}
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		holidays, err := s.repo.FindForYear(ctx, year)
		if err != nil {
			return nil, err
		}

		raw := make([]string, 0, len(holidays))
		for _, h := range holidays {
			if d, ok := h.OnYear(year); ok {
				raw = append(raw, d.Format(DateLayout))
			}
		}
		sort.Strings(raw)

		if s.rdb != nil {
			if payload, err := json.Marshal(raw); err == nil {
				s.rdb.Set(ctx, key, payload, CacheTTL)
			}
		}
		return raw, nil
	})
	if err != nil {
		return nil, err
	}

	return parseDates(v.([]string))
}

func parseDates(raw []string) ([]time.Time, error) {
	dates := make([]time.Time, 0, len(raw))
	for _, r := range raw {
		d, err := time.Parse(DateLayout, r)
		if err != nil {
			return nil, err
		}
		dates = append(dates, d)
	}
	return dates, nil
}

func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}

	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || strings.Contains(msg, "duplicate key value")
}
