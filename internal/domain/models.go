package domain

import "strconv"

// All monetary values are integer minor units (paise). Currency math never
// touches floating point.

type User struct {
	ID       int64  `db:"id" json:"id"`
	Email    string `db:"email" json:"email"`
	Name     string `db:"name" json:"name"`
	Hash     string `db:"password_hash" json:"-"`
	Phone    string `db:"phone" json:"phone,omitempty"`
	DarkMode bool   `db:"dark_mode" json:"darkMode,omitempty"`
	Role     string `db:"role" json:"-"` // USER | ADMIN
}

type Address struct {
	ID        int64  `db:"id" json:"id"`
	UserID    int64  `db:"user_id" json:"-"`
	Name      string `db:"name" json:"name"`
	Phone     string `db:"phone" json:"phone"`
	Street    string `db:"street" json:"street"`
	City      string `db:"city" json:"city"`
	State     string `db:"state" json:"state"`
	Zip       string `db:"zip" json:"zip"`
	CreatedAt string `db:"created_at" json:"createdAt"`
}

// CartOwner is the partition key for carts and wishlists: a guest session
// or a signed-in user. Merge happens exactly once, at the sign-in transition.
type CartOwner struct {
	UserID    int64
	SessionID string
}

func GuestOwner(sessionID string) CartOwner { return CartOwner{SessionID: sessionID} }
func UserOwner(userID int64) CartOwner      { return CartOwner{UserID: userID} }

func (o CartOwner) IsGuest() bool { return o.UserID == 0 }

// Key is the storage key: "g:<sid>" for guests, "u:<id>" for users.
func (o CartOwner) Key() string {
	if o.IsGuest() {
		return "g:" + o.SessionID
	}
	return "u:" + strconv.FormatInt(o.UserID, 10)
}

type CartItem struct {
	ProductID string `db:"product_id" json:"id"`
	Title     string `db:"title" json:"title"`
	Price     int64  `db:"price" json:"price"` // paise
	Qty       int    `db:"qty" json:"qty"`
}

type WishlistItem struct {
	ProductID string `db:"product_id" json:"id"`
	Title     string `db:"title" json:"title"`
	Price     int64  `db:"price" json:"price"`
	Img       string `db:"img" json:"img,omitempty"`
	AddedAt   int64  `db:"added_at" json:"addedAt"` // unix millis
}

type Promo struct {
	Code     string `db:"code" json:"code"`
	Discount int64  `db:"discount" json:"discount"`
	Kind     string `db:"kind" json:"type"` // percent | fixed
}

const (
	PromoPercent = "percent"
	PromoFixed   = "fixed"
)

type Product struct {
	ID          int64  `db:"id" json:"id"`
	Title       string `db:"title" json:"title"`
	Price       int64  `db:"price" json:"price"`
	Img         string `db:"img" json:"img,omitempty"`
	Category    string `db:"category" json:"category"`
	Description string `db:"description" json:"desc,omitempty"`
	Inventory   int    `db:"inventory" json:"inventory"`
	Popular     bool   `db:"popular" json:"popular"`
	CreatedAt   int64  `db:"created_at" json:"createdAt"`
	UpdatedAt   int64  `db:"updated_at" json:"updatedAt"`
}

type Review struct {
	ID        int64  `db:"id" json:"id"`
	ProductID string `db:"product_id" json:"-"`
	UserID    int64  `db:"user_id" json:"userId"`
	UserName  string `db:"user_name" json:"userName"`
	Rating    int    `db:"rating" json:"rating"`
	Title     string `db:"title" json:"title"`
	Comment   string `db:"comment" json:"comment"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
	Helpful   int    `db:"helpful" json:"helpful"`
}

type EmailRecord struct {
	ID        string `db:"id" json:"id"`
	To        string `db:"recipient" json:"to"`
	Subject   string `db:"subject" json:"subject"`
	Body      string `db:"body" json:"body"`
	CreatedAt int64  `db:"created_at" json:"createdAt"`
}
