// Package models defines the entity shapes stored in the document store.
// The CRUD engine works on raw JSON documents; these structs document the
// field layout and serve typed callers (auth, seeding, tests).
package models

// Asset is a binary object owned by a record: its public URL plus the
// opaque key used to delete it from the blob store.
type Asset struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// User is an account that can authenticate against the API. The record is
// keyed by the lowercased email; ID carries the same value.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	PasswordHash string `json:"password,omitempty"`
	Role         string `json:"role"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

// Roles satisfying the admin capability.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
	RoleHR    = "hr"
)

// IsAdminLike reports whether the user may call mutating endpoints.
func (u *User) IsAdminLike() bool {
	return u != nil && (u.Role == RoleAdmin || u.Role == RoleHR)
}

type Client struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Logo        string `json:"logo"`
	Website     string `json:"website"`
	Description string `json:"description"`
	IsActive    bool   `json:"isActive"`
	CreatedAt   string `json:"createdAt,omitempty"`
	UpdatedAt   string `json:"updatedAt,omitempty"`
}

type TeamMember struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	Bio       string `json:"bio"`
	Image     *Asset `json:"image,omitempty"`
	LinkedIn  string `json:"linkedin"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

type Portfolio struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Category     string   `json:"category"`
	Description  string   `json:"description"`
	Technologies []string `json:"technologies"`
	Color        string   `json:"color"`
	Image        *Asset   `json:"image,omitempty"`
	CreatedAt    string   `json:"createdAt,omitempty"`
	UpdatedAt    string   `json:"updatedAt,omitempty"`
}

type GalleryItem struct {
	ID           string `json:"id"`
	Title        string `json:"title"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Date         int64  `json:"date"`
	Location     string `json:"location"`
	ReadMoreLink string `json:"readMoreLink"`
	Image        *Asset `json:"image,omitempty"`
	IsActive     bool   `json:"isActive"`
	CreatedAt    string `json:"createdAt,omitempty"`
	UpdatedAt    string `json:"updatedAt,omitempty"`
}

type Service struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Features    []string `json:"features"`
	Icon        string   `json:"icon"`
	CreatedAt   string   `json:"createdAt,omitempty"`
	UpdatedAt   string   `json:"updatedAt,omitempty"`
}

// Reply is a single admin answer attached to a contact submission.
type Reply struct {
	Message   string `json:"message"`
	RepliedBy string `json:"repliedBy"`
	RepliedAt string `json:"repliedAt"`
}

type ContactSubmission struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	Subject   string  `json:"subject"`
	Message   string  `json:"message"`
	Type      string  `json:"type"`
	Resume    *Asset  `json:"resume,omitempty"`
	Status    string  `json:"status"`
	Replies   []Reply `json:"replies"`
	CreatedAt string  `json:"createdAt,omitempty"`
	UpdatedAt string  `json:"updatedAt,omitempty"`
}

type Sentence struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	URL       string `json:"url"`
	UserAgent string `json:"userAgent"`
	Timestamp string `json:"timestamp"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}
