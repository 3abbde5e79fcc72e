package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"gorm.io/gorm"

	"sling/roomhub/internal/model"
	"sling/roomhub/internal/repository"
	"sling/roomhub/pkg/crypto"
)

const auditSource = "account_service"

// FieldKind names the mutable account fields. The closed enum replaces the
// original dynamic setter dispatch: an unknown field is unrepresentable at
// the call site instead of being silently dropped at runtime.
type FieldKind int

const (
	FieldEmail FieldKind = iota
	FieldFirstName
	FieldLastName
	FieldPassword
	FieldToken
	FieldScreenName
)

func (k FieldKind) String() string {
	switch k {
	case FieldEmail:
		return "email"
	case FieldFirstName:
		return "first_name"
	case FieldLastName:
		return "last_name"
	case FieldPassword:
		return "password"
	case FieldToken:
		return "token"
	case FieldScreenName:
		return "screen_name"
	}
	return "unknown"
}

// AccountService owns account rows and the single participant an account may
// hold. Mutations write through immediately; concurrent updates to the same
// account are last-write-wins.
type AccountService struct {
	store    repository.Store
	cache    repository.StateStore
	audit    *AuditLogger
	cacheTTL time.Duration
	now      func() time.Time
}

func NewAccountService(store repository.Store, cache repository.StateStore, audit *AuditLogger, cacheTTL time.Duration) *AccountService {
	return &AccountService{
		store:    store,
		cache:    cache,
		audit:    audit,
		cacheTTL: cacheTTL,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Create registers a new account. All fields are validated before any write;
// a duplicate email surfaces as ErrEmailTaken.
func (s *AccountService) Create(ctx context.Context, email, firstName, lastName, password string) (*model.Account, error) {
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validateName("first_name", firstName); err != nil {
		return nil, err
	}
	if err := validateName("last_name", lastName); err != nil {
		return nil, err
	}
	hash, err := crypto.HashPassword(password)
	if err != nil {
		if errors.Is(err, crypto.ErrPasswordLength) {
			return nil, &ValidationError{Field: "password", Reason: err.Error()}
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	account, err := s.newAccount()
	if err != nil {
		return nil, err
	}
	account.Email = &email
	account.FirstName = firstName
	account.LastName = lastName
	account.PasswordHash = &hash

	if err := s.store.Accounts().Create(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}
	s.audit.Record(auditSource, "account_created", fmt.Sprintf("account %d created", account.AccountID))
	return account, nil
}

// CreateGuest provisions an anonymous account that carries only a login
// token. Guests are created when someone opens or joins a room without
// registering.
func (s *AccountService) CreateGuest(ctx context.Context) (*model.Account, error) {
	account, err := s.newAccount()
	if err != nil {
		return nil, err
	}
	if err := s.store.Accounts().Create(ctx, account); err != nil {
		return nil, fmt.Errorf("create guest account: %w", err)
	}
	s.audit.Record(auditSource, "account_created", fmt.Sprintf("guest account %d created", account.AccountID))
	return account, nil
}

// NewGuest builds an unpersisted guest account. The room service uses it to
// insert the account inside its own transaction.
func (s *AccountService) NewGuest() (*model.Account, error) {
	return s.newAccount()
}

func (s *AccountService) newAccount() (*model.Account, error) {
	token, err := crypto.NewLoginToken()
	if err != nil {
		return nil, fmt.Errorf("issue login token: %w", err)
	}
	now := s.now()
	return &model.Account{
		LoginToken:   token,
		TokenGenTime: now,
		LastLogin:    now,
		JoinDate:     now,
	}, nil
}

// Get returns the account by ID with its participant projection loaded.
func (s *AccountService) Get(ctx context.Context, id uint) (*model.Account, error) {
	account, err := s.store.Accounts().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account: %w", err)
	}
	if err := s.LoadParticipant(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// Login authenticates by email and password. A missing account or a hash
// mismatch both come back as ErrInvalidCredentials; the two cases are not
// distinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, email, password string) (*model.Account, error) {
	account, err := s.store.Accounts().GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup account by email: %w", err)
	}
	if account.PasswordHash == nil || !crypto.CheckPassword(password, *account.PasswordHash) {
		return nil, ErrInvalidCredentials
	}
	return s.completeLogin(ctx, account)
}

// LoginByToken authenticates by opaque bearer token, consulting the token
// cache before the accounts table. An unknown token is ErrAccountNotFound.
func (s *AccountService) LoginByToken(ctx context.Context, token string) (*model.Account, error) {
	if id, ok := s.cachedAccountID(ctx, token); ok {
		account, err := s.store.Accounts().GetByID(ctx, id)
		if err == nil {
			return s.completeLogin(ctx, account)
		}
		// Stale cache entry; fall through to the table.
		_ = s.cache.Delete(ctx, tokenCacheKey(token))
	}

	account, err := s.store.Accounts().GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("lookup account by token: %w", err)
	}
	s.cacheToken(ctx, account)
	return s.completeLogin(ctx, account)
}

func (s *AccountService) completeLogin(ctx context.Context, account *model.Account) (*model.Account, error) {
	account.LastLogin = s.now()
	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return nil, fmt.Errorf("refresh last login: %w", err)
	}
	if err := s.LoadParticipant(ctx, account); err != nil {
		return nil, err
	}
	return account, nil
}

// LoadParticipant fills the account's participant projection from the
// participants table, clearing it when no row exists.
func (s *AccountService) LoadParticipant(ctx context.Context, account *model.Account) error {
	participant, err := s.store.Participants().GetByAccount(ctx, account.AccountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			account.ClearParticipant()
			return nil
		}
		return fmt.Errorf("load participant: %w", err)
	}
	account.AttachParticipant(participant)
	return nil
}

// UpdateField mutates one account field, re-validating it, recording an audit
// entry, and writing the account+participant composite through immediately.
func (s *AccountService) UpdateField(ctx context.Context, account *model.Account, kind FieldKind, value string) error {
	switch kind {
	case FieldEmail:
		if err := validateEmail(value); err != nil {
			return err
		}
		old := ""
		if account.Email != nil {
			old = *account.Email
		}
		account.Email = &value
		s.audit.Record(auditSource, "account_updated",
			fmt.Sprintf("account %d: email changed from %q to %q", account.AccountID, old, value))

	case FieldFirstName:
		if err := validateName("first_name", value); err != nil {
			return err
		}
		old := account.FirstName
		account.FirstName = value
		s.audit.Record(auditSource, "account_updated",
			fmt.Sprintf("account %d: first name changed from %q to %q", account.AccountID, old, value))

	case FieldLastName:
		if err := validateName("last_name", value); err != nil {
			return err
		}
		old := account.LastName
		account.LastName = value
		s.audit.Record(auditSource, "account_updated",
			fmt.Sprintf("account %d: last name changed from %q to %q", account.AccountID, old, value))

	case FieldPassword:
		hash, err := crypto.HashPassword(value)
		if err != nil {
			if errors.Is(err, crypto.ErrPasswordLength) {
				return &ValidationError{Field: "password", Reason: err.Error()}
			}
			return fmt.Errorf("hash password: %w", err)
		}
		account.PasswordHash = &hash
		s.audit.Record(auditSource, "account_updated",
			fmt.Sprintf("account %d: password changed", account.AccountID))

	case FieldToken:
		// The value is ignored; tokens are never chosen by the caller.
		if err := s.rotateToken(ctx, account); err != nil {
			return err
		}

	case FieldScreenName:
		if !account.HasParticipant() {
			return ErrNoParticipant
		}
		if err := validateScreenName(value); err != nil {
			return err
		}
		old := *account.ScreenName
		account.ScreenName = &value
		s.audit.Record(auditSource, "account_updated",
			fmt.Sprintf("account %d: screen name changed from %q to %q", account.AccountID, old, value))

	default:
		s.audit.Warn(auditSource, "account_updated",
			fmt.Sprintf("account %d: rejected unknown field kind %d", account.AccountID, kind))
		return &ValidationError{Field: "field", Reason: "unknown field kind"}
	}

	return s.Save(ctx, account)
}

// RotateToken issues a fresh opaque token, invalidating the cached old one,
// and persists the account.
func (s *AccountService) RotateToken(ctx context.Context, account *model.Account) error {
	if err := s.rotateToken(ctx, account); err != nil {
		return err
	}
	return s.Save(ctx, account)
}

func (s *AccountService) rotateToken(ctx context.Context, account *model.Account) error {
	token, err := crypto.NewLoginToken()
	if err != nil {
		return fmt.Errorf("issue login token: %w", err)
	}
	_ = s.cache.Delete(ctx, tokenCacheKey(account.LoginToken))
	account.LoginToken = token
	account.TokenGenTime = s.now()
	s.audit.Record(auditSource, "account_updated",
		fmt.Sprintf("account %d: login token rotated", account.AccountID))
	return nil
}

// Save writes the account row through, plus the participant's screen name
// when the account holds one.
func (s *AccountService) Save(ctx context.Context, account *model.Account) error {
	if err := s.store.Accounts().Update(ctx, account); err != nil {
		return fmt.Errorf("save account: %w", err)
	}
	if account.HasParticipant() {
		if err := s.store.Participants().UpdateScreenName(ctx, account.AccountID, *account.ScreenName); err != nil {
			return fmt.Errorf("save participant: %w", err)
		}
	}
	return nil
}

// Delete removes the account identified by its login token, cascading to its
// participant row first. It reports whether the account row was removed.
func (s *AccountService) Delete(ctx context.Context, account *model.Account) (bool, error) {
	existing, err := s.store.Accounts().GetByToken(ctx, account.LoginToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("lookup account by token: %w", err)
	}

	var removed bool
	err = s.store.Atomically(ctx, func(tx repository.Store) error {
		if _, err := tx.Participants().DeleteByAccount(ctx, existing.AccountID); err != nil {
			return fmt.Errorf("delete participant: %w", err)
		}
		removed, err = tx.Accounts().Delete(ctx, existing.AccountID)
		if err != nil {
			return fmt.Errorf("delete account: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	_ = s.cache.Delete(ctx, tokenCacheKey(account.LoginToken))
	account.ClearParticipant()
	if removed {
		s.audit.Record(auditSource, "account_deleted",
			fmt.Sprintf("account %d deleted", existing.AccountID))
	}
	return removed, nil
}

// DeleteParticipant removes only the participant half, leaving the account
// row intact. The in-memory projection is cleared on success.
func (s *AccountService) DeleteParticipant(ctx context.Context, account *model.Account) (bool, error) {
	removed, err := s.store.Participants().DeleteByAccount(ctx, account.AccountID)
	if err != nil {
		return false, fmt.Errorf("delete participant: %w", err)
	}
	if removed {
		account.ClearParticipant()
		s.audit.Record(auditSource, "participant_deleted",
			fmt.Sprintf("account %d left its room", account.AccountID))
	}
	return removed, nil
}

func (s *AccountService) cachedAccountID(ctx context.Context, token string) (uint, bool) {
	raw, err := s.cache.Get(ctx, tokenCacheKey(token))
	if err != nil || raw == nil {
		return 0, false
	}
	id, err := strconv.ParseUint(string(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return uint(id), true
}

func (s *AccountService) cacheToken(ctx context.Context, account *model.Account) {
	value := []byte(strconv.FormatUint(uint64(account.AccountID), 10))
	_ = s.cache.Set(ctx, tokenCacheKey(account.LoginToken), value, s.cacheTTL)
}

func tokenCacheKey(token string) string { return "login_token:" + token }
