package directory

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	directoryerrors "go-portal-rh/internal/directory/errors"
	"go-portal-rh/internal/shared/contextutil"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

const (
	EmployeeOrgKeyPrefix  = "directory:employee_org:"
	ManagerScopeKeyPrefix = "directory:manager_scope:"
	CacheTTL              = 10 * time.Minute
)

func EmployeeOrgKey(employeeID string) string {
	return EmployeeOrgKeyPrefix + employeeID
}

func ManagerScopeKey(managerID string) string {
	return ManagerScopeKeyPrefix + managerID
}

// Service answers organisational lookups. Answers may lag the directory by
// up to CacheTTL.
//
//go:generate mockgen -source=directory_service.go -destination=mock/directory_service_mock.go -package=mock
type Service interface {
	EmployeeOrg(ctx context.Context, employeeID string) (EmployeeOrg, error)
	ManagerScope(ctx context.Context, managerID string) (ManagerScope, error)
}

type service struct {
	repo   Repository
	rdb    *redis.Client
	sf     *singleflight.Group
	logger *zap.Logger
}

// NewService wires the directory. rdb may be nil, which disables caching.
func NewService(repo Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("directory.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("directory.service")
	}
	return &service{
		repo:   repo,
		rdb:    rdb,
		sf:     &singleflight.Group{},
		logger: l,
	}
}

func (s *service) EmployeeOrg(ctx context.Context, employeeID string) (EmployeeOrg, error) {
	if _, err := uuid.Parse(employeeID); err != nil {
		return EmployeeOrg{}, directoryerrors.ErrInvalidEmployeeID
	}

	var org EmployeeOrg
	err := s.cached(ctx, EmployeeOrgKey(employeeID), &org, func() (any, error) {
		e, err := s.repo.FindEmployeeByID(ctx, employeeID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, directoryerrors.ErrEmployeeNotFound
			}
			return nil, err
		}
		return mapToOrg(*e), nil
	})
	return org, err
}

func (s *service) ManagerScope(ctx context.Context, managerID string) (ManagerScope, error) {
	if _, err := uuid.Parse(managerID); err != nil {
		return ManagerScope{}, directoryerrors.ErrInvalidEmployeeID
	}

	var scope ManagerScope
	err := s.cached(ctx, ManagerScopeKey(managerID), &scope, func() (any, error) {
		rows, err := s.repo.FindManagedUnits(ctx, managerID)
		if err != nil {
			return nil, err
		}
		return mapToScope(managerID, rows), nil
	})
	return scope, err
}

// cached reads key into dst, or runs load once per key across concurrent
// callers and stores the result.
func (s *service) cached(ctx context.Context, key string, dst any, load func() (any, error)) error {
	log := contextutil.GetLogger(ctx, s.logger)

	if s.rdb != nil {
		if raw, err := s.rdb.Get(ctx, key).Bytes(); err == nil {
			if json.Unmarshal(raw, dst) == nil {
				return nil
			}
		} else if !errors.Is(err, redis.Nil) {
			log.Warn("directory cache read failed", zap.String("key", key), zap.Error(err))
		}
	}

	v, err, _ := s.sf.Do(key, func() (interface{}, error) {
		val, err := load()
		if err != nil {
			return nil, err
		}

		payload, err := json.Marshal(val)
		if err != nil {
			return nil, err
		}

		if s.rdb != nil {
			if err := s.rdb.Set(ctx, key, payload, CacheTTL).Err(); err != nil {
				log.Warn("directory cache write failed", zap.String("key", key), zap.Error(err))
			}
		}
		return payload, nil
	})
	if err != nil {
		return err
	}

	return json.Unmarshal(v.([]byte), dst)
}
