package services

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"time"

	"ngosocial/internal/apperr"
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
	"ngosocial/internal/store"

	"go.uber.org/zap"
)

type AccountStore interface {
	CreateAccount(ctx context.Context, acc store.Account) error
	FindAccountByEmail(ctx context.Context, kind engagement.Kind, email string) (store.Account, error)
	SaveCredentials(ctx context.Context, acc store.Account) error
}

// Registration 注册信息；User 只用 FullName，NGO 用其余字段
type Registration struct {
	Email    string
	FullName string
	Name     string
	Type     string
	Phone    string
	Address  models.Address
}

// AuthService 注册、邮箱验证、设置密码与登录
type AuthService struct {
	store  AccountStore
	tokens *TokenIssuer
	mail   Mailer
	log    *zap.Logger
}

func NewAuthService(s AccountStore, tokens *TokenIssuer, mail Mailer, log *zap.Logger) *AuthService {
	return &AuthService{store: s, tokens: tokens, mail: mail, log: log}
}

var errInvalidCredentials = apperr.Authentication("invalid login credentials")

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", apperr.Internal("generate otp", err)
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String(), nil
}

// Register creates an unverified account and mails a one-time code. The
// email must be unused by both users and NGOs.
func (a *AuthService) Register(ctx context.Context, kind engagement.Kind, in Registration) error {
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	creds := models.Credentials{Email: in.Email, Otp: otp}

	var acc store.Account
	switch kind {
	case engagement.KindUser:
		acc = store.UserAccount(&models.User{Credentials: creds, FullName: in.FullName, Role: string(kind)})
	case engagement.KindNgo:
		acc = store.NgoAccount(&models.Ngo{
			Credentials: creds,
			Name:        in.Name,
			Type:        in.Type,
			Phone:       in.Phone,
			Address:     in.Address,
			Role:        string(kind),
		})
	default:
		return apperr.Validation("unknown account kind")
	}
	if err := a.store.CreateAccount(ctx, acc); err != nil {
		return err
	}
	a.mail.SendOTP(acc.Creds().Email, acc.DisplayName(), otp)
	a.log.Info("account registered", zap.String("principal", acc.Principal().String()))
	return nil
}

func (a *AuthService) find(ctx context.Context, kind engagement.Kind, email string) (store.Account, error) {
	acc, err := a.store.FindAccountByEmail(ctx, kind, email)
	if apperr.KindOf(err) == apperr.KindNotFound {
		return nil, errInvalidCredentials
	}
	return acc, err
}

func (a *AuthService) Verify(ctx context.Context, kind engagement.Kind, email, otp string) error {
	acc, err := a.find(ctx, kind, email)
	if err != nil {
		return err
	}
	creds := acc.Creds()
	if creds.Otp == "" || subtle.ConstantTimeCompare([]byte(creds.Otp), []byte(otp)) != 1 {
		return apperr.Authorization("invalid otp")
	}
	now := time.Now()
	creds.Otp = ""
	creds.Verified = true
	creds.VerifiedAt = &now
	return a.store.SaveCredentials(ctx, acc)
}

func (a *AuthService) ResendOTP(ctx context.Context, kind engagement.Kind, email string) error {
	acc, err := a.find(ctx, kind, email)
	if err != nil {
		return err
	}
	otp, err := generateOTP()
	if err != nil {
		return err
	}
	acc.Creds().Otp = otp
	if err := a.store.SaveCredentials(ctx, acc); err != nil {
		return err
	}
	a.mail.SendOTP(acc.Creds().Email, acc.DisplayName(), otp)
	return nil
}

// SetPassword stores the first password of a verified account and returns
// a bearer token. It refuses to overwrite an existing password.
func (a *AuthService) SetPassword(ctx context.Context, kind engagement.Kind, email, password string) (string, error) {
	acc, err := a.find(ctx, kind, email)
	if err != nil {
		return "", err
	}
	creds := acc.Creds()
	if creds.HasPassword() || !creds.Verified {
		return "", apperr.Authorization("invalid login credentials")
	}
	hashed, err := HashPassword(password)
	if err != nil {
		return "", err
	}
	creds.Password = hashed
	if err := a.store.SaveCredentials(ctx, acc); err != nil {
		return "", err
	}
	return a.tokens.Issue(acc.Principal())
}

func (a *AuthService) Login(ctx context.Context, kind engagement.Kind, email, password string) (string, error) {
	acc, err := a.find(ctx, kind, email)
	if err != nil {
		return "", err
	}
	creds := acc.Creds()
	if !creds.Verified || !creds.HasPassword() || !CheckPassword(creds.Password, password) {
		return "", errInvalidCredentials
	}
	return a.tokens.Issue(acc.Principal())
}
