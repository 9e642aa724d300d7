package services

import (
	"strings"

	"shopease/internal/domain"
	"shopease/internal/repos"

	"golang.org/x/crypto/bcrypt"
)

type AuthService struct {
	Users *repos.UserRepo
	Carts *repos.CartRepo
	Wish  *repos.WishlistRepo
}

func NewAuthService(users *repos.UserRepo, carts *repos.CartRepo, wish *repos.WishlistRepo) *AuthService {
	return &AuthService{Users: users, Carts: carts, Wish: wish}
}

// Signup creates the account, folds the guest cart and wishlist into it and
// binds the session. Name defaults to the email's local part.
func (s *AuthService) Signup(sid, email, name, password string) (*domain.User, error) {
	if _, err := s.Users.ByEmail(email); err == nil {
		return nil, ErrEmailTaken
	}
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
		if name == "" {
			name = "User"
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		return nil, err
	}
	id, err := s.Users.Create(email, name, string(hash))
	if err != nil {
		return nil, err
	}

	if err := s.adopt(sid, id); err != nil {
		return nil, err
	}
	return s.Users.ByID(id)
}

// Signin verifies credentials, folds the guest cart and wishlist into the
// user's persistent ones and binds the session.
func (s *AuthService) Signin(sid, email, password string) (*domain.User, error) {
	u, err := s.Users.ByEmail(email)
	if err != nil {
		return nil, ErrBadCreds
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Hash), []byte(password)) != nil {
		return nil, ErrBadCreds
	}
	if err := s.adopt(sid, u.ID); err != nil {
		return nil, err
	}
	return u, nil
}

// adopt is the single sign-in transition: guest state merges into the user
// partition, then the session points at the user.
func (s *AuthService) adopt(sid string, userID int64) error {
	guest := domain.GuestOwner(sid)
	user := domain.UserOwner(userID)
	if err := s.Carts.MergeInto(guest, user); err != nil {
		return err
	}
	if err := s.Wish.MergeInto(guest, user); err != nil {
		return err
	}
	return s.Users.BindSession(sid, userID)
}

func (s *AuthService) Signout(sid string) error {
	return s.Users.UnbindSession(sid)
}

func (s *AuthService) CurrentUser(sid string) (*domain.User, error) {
	return s.Users.SessionUser(sid)
}
