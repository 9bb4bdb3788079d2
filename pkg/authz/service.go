package authz

import (
	"fmt"
	"strings"
	"sync"

	"github.com/casbin/casbin/v2"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	subjectUserPrefix = "user"
	subjectSeparator  = ":"
)

// Config carries the casbin model and policy file locations.
type Config struct {
	ModelPath  string
	PolicyPath string
	Logger     *logrus.Entry
}

func (c Config) validate() error {
	if strings.TrimSpace(c.ModelPath) == "" {
		return fmt.Errorf("authz: ModelPath is required")
	}
	if strings.TrimSpace(c.PolicyPath) == "" {
		return fmt.Errorf("authz: PolicyPath is required")
	}
	return nil
}

// Service wraps a casbin enforcer holding global permission grants.
// Grants added at runtime live in the enforcer's memory; persisting
// them back to the policy file is the host's concern.
type Service struct {
	enforcer *casbin.Enforcer
	logger   *logrus.Entry
	mu       sync.RWMutex
}

func NewService(cfg Config) (*Service, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = logrus.WithField("component", "authz")
	}

	enf, err := casbin.NewEnforcer(cfg.ModelPath, fileadapter.NewAdapter(cfg.PolicyPath))
	if err != nil {
		return nil, fmt.Errorf("authz: failed to initialize enforcer: %w", err)
	}
	if err := enf.LoadPolicy(); err != nil {
		return nil, fmt.Errorf("authz: failed to load policies: %w", err)
	}

	return &Service{enforcer: enf, logger: logger}, nil
}

// Check reports whether the subject holds the named permission.
func (s *Service) Check(subject, permission string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	res, err := s.enforcer.Enforce(subject, permission)
	if err != nil {
		return false, fmt.Errorf("authz: enforce failed: %w", err)
	}
	return res, nil
}

// Grant adds a permission policy for the subject. Returns false when
// the policy already existed.
func (s *Service) Grant(subject, permission string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	added, err := s.enforcer.AddPolicy(subject, permission)
	if err != nil {
		return false, fmt.Errorf("authz: add policy failed: %w", err)
	}
	return added, nil
}

// Revoke removes a permission policy for the subject.
func (s *Service) Revoke(subject, permission string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed, err := s.enforcer.RemovePolicy(subject, permission)
	if err != nil {
		return false, fmt.Errorf("authz: remove policy failed: %w", err)
	}
	return removed, nil
}

// ReloadPolicy re-reads policy data from disk, dropping runtime grants.
func (s *Service) ReloadPolicy() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.enforcer.LoadPolicy(); err != nil {
		return fmt.Errorf("authz: reload policy failed: %w", err)
	}
	s.logger.Info("authz policy reloaded")
	return nil
}

// SubjectForUser builds the canonical subject identifier for a user.
func SubjectForUser(userID uuid.UUID) string {
	userPart := "anonymous"
	if userID != uuid.Nil {
		userPart = userID.String()
	}
	return subjectUserPrefix + subjectSeparator + userPart
}
