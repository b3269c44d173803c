package store

import (
	"context"
	"strings"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// Account 统一个人用户与 NGO 的登录视图
type Account interface {
	Principal() engagement.Principal
	Creds() *models.Credentials
	DisplayName() string
}

type userAccount struct{ *models.User }

func (a userAccount) Principal() engagement.Principal { return engagement.User(a.ID) }
func (a userAccount) Creds() *models.Credentials      { return &a.Credentials }
func (a userAccount) DisplayName() string             { return a.FullName }

type ngoAccount struct{ *models.Ngo }

func (a ngoAccount) Principal() engagement.Principal { return engagement.Ngo(a.ID) }
func (a ngoAccount) Creds() *models.Credentials      { return &a.Credentials }
func (a ngoAccount) DisplayName() string             { return a.Name }

func UserAccount(u *models.User) Account { return userAccount{u} }
func NgoAccount(n *models.Ngo) Account   { return ngoAccount{n} }

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// EmailTaken checks both account tables; an email identifies at most one principal.
func (s *Store) EmailTaken(ctx context.Context, email string) (bool, error) {
	email = normalizeEmail(email)
	for _, m := range []any{&models.User{}, &models.Ngo{}} {
		var n int64
		if err := s.conn(ctx).Model(m).Where("email = ?", email).Count(&n).Error; err != nil {
			return false, translate(err, "account")
		}
		if n > 0 {
			return true, nil
		}
	}
	return false, nil
}

// CreateAccount inserts a user or NGO after checking the shared email namespace.
func (s *Store) CreateAccount(ctx context.Context, acc Account) error {
	creds := acc.Creds()
	creds.Email = normalizeEmail(creds.Email)
	taken, err := s.EmailTaken(ctx, creds.Email)
	if err != nil {
		return err
	}
	if taken {
		return apperr.Conflict("email already in use")
	}
	var model any
	switch a := acc.(type) {
	case userAccount:
		model = a.User
	case ngoAccount:
		model = a.Ngo
	}
	return translate(s.conn(ctx).Create(model).Error, "account")
}

// FindAccountByEmail loads an account of the given kind.
func (s *Store) FindAccountByEmail(ctx context.Context, kind engagement.Kind, email string) (Account, error) {
	email = normalizeEmail(email)
	if kind == engagement.KindNgo {
		var n models.Ngo
		if err := s.conn(ctx).First(&n, "email = ?", email).Error; err != nil {
			return nil, translate(err, "ngo")
		}
		return NgoAccount(&n), nil
	}
	var u models.User
	if err := s.conn(ctx).First(&u, "email = ?", email).Error; err != nil {
		return nil, translate(err, "user")
	}
	return UserAccount(&u), nil
}

// FindAccount loads the account behind p.
func (s *Store) FindAccount(ctx context.Context, p engagement.Principal) (Account, error) {
	if p.Kind == engagement.KindNgo {
		n, err := s.FindNgo(ctx, p.ID)
		if err != nil {
			return nil, err
		}
		return NgoAccount(n), nil
	}
	u, err := s.FindUser(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	return UserAccount(u), nil
}

// SaveCredentials persists the credential columns of acc.
func (s *Store) SaveCredentials(ctx context.Context, acc Account) error {
	creds := acc.Creds()
	p := acc.Principal()
	var model any = &models.User{}
	if p.Kind == engagement.KindNgo {
		model = &models.Ngo{}
	}
	err := s.conn(ctx).Model(model).Where("id = ?", p.ID).Updates(map[string]any{
		"password":    creds.Password,
		"otp":         creds.Otp,
		"verified":    creds.Verified,
		"verified_at": creds.VerifiedAt,
	}).Error
	return translate(err, "account")
}

func (s *Store) FindUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.conn(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &u, nil
}

func (s *Store) FindNgo(ctx context.Context, id string) (*models.Ngo, error) {
	var n models.Ngo
	if err := s.conn(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, translate(err, "ngo")
	}
	return &n, nil
}

// Exists reports whether the principal's account row is present.
func (s *Store) Exists(ctx context.Context, p engagement.Principal) (bool, error) {
	var model any = &models.User{}
	if p.Kind == engagement.KindNgo {
		model = &models.Ngo{}
	}
	var n int64
	err := s.conn(ctx).Model(model).Where("id = ?", p.ID).Count(&n).Error
	return n > 0, translate(err, "account")
}

type UserProfile struct {
	FullName string
}

func (s *Store) UpdateUser(ctx context.Context, id string, in UserProfile) (*models.User, error) {
	err := s.conn(ctx).Model(&models.User{}).Where("id = ?", id).Update("full_name", in.FullName).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return s.FindUser(ctx, id)
}

type NgoProfile struct {
	Name    string
	Type    string
	Phone   string
	Address *models.Address
}

func (s *Store) UpdateNgo(ctx context.Context, id string, in NgoProfile) (*models.Ngo, error) {
	err := s.conn(ctx).Transaction(func(tx *gorm.DB) error {
		var n models.Ngo
		if err := tx.First(&n, "id = ?", id).Error; err != nil {
			return err
		}
		if in.Name != "" {
			n.Name = in.Name
		}
		if in.Type != "" {
			n.Type = in.Type
		}
		if in.Phone != "" {
			n.Phone = in.Phone
		}
		if in.Address != nil {
			n.Address = *in.Address
		}
		return tx.Select("name", "type", "phone", "address").Save(&n).Error
	})
	if err != nil {
		return nil, translate(err, "ngo")
	}
	return s.FindNgo(ctx, id)
}

func withCreatedPosts(tx *gorm.DB) *gorm.DB {
	return tx.Preload("CreatedPosts", newestFirst).
		Preload("CreatedPosts.Votes").
		Preload("CreatedPosts.Comments", newestFirst).
		Preload("CreatedPosts.Comments.Votes")
}

// SearchUsers matches full names case-insensitively and loads each user's posts.
func (s *Store) SearchUsers(ctx context.Context, fullName string) ([]models.User, error) {
	var users []models.User
	err := withCreatedPosts(s.conn(ctx)).
		Where("LOWER(full_name) LIKE ?", "%"+strings.ToLower(fullName)+"%").
		Order("full_name ASC").
		Find(&users).Error
	return users, translate(err, "user")
}

func (s *Store) SearchNgos(ctx context.Context, name string) ([]models.Ngo, error) {
	var ngos []models.Ngo
	err := withCreatedPosts(s.conn(ctx)).
		Where("LOWER(name) LIKE ?", "%"+strings.ToLower(name)+"%").
		Order("name ASC").
		Find(&ngos).Error
	return ngos, translate(err, "ngo")
}

// ListUsers returns users with the most points first, each with created posts loaded.
func (s *Store) ListUsers(ctx context.Context, limit int) ([]models.User, error) {
	var users []models.User
	err := withCreatedPosts(s.conn(ctx)).
		Order("points DESC").Order("full_name ASC").
		Limit(limit).
		Find(&users).Error
	return users, translate(err, "user")
}

func (s *Store) ListNgos(ctx context.Context, limit int) ([]models.Ngo, error) {
	var ngos []models.Ngo
	err := withCreatedPosts(s.conn(ctx)).
		Order("points DESC").Order("name ASC").
		Limit(limit).
		Find(&ngos).Error
	return ngos, translate(err, "ngo")
}
