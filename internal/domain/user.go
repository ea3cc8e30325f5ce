package domain

const (
	RoleUser  = "USER"
	RoleStaff = "STAFF"
)

type User struct {
	ID        string `db:"id" json:"id"`
	Username  string `db:"username" json:"username"`
	Email     string `db:"email" json:"email"`
	Hash      string `db:"password_hash" json:"-"`
	Role      string `db:"role" json:"role"`
	CreatedAt string `db:"created_at" json:"created_at"`
}

// Viewer is the authenticated caller a query or mutation runs on behalf of.
// Row filtering and ownership checks take it as an explicit argument.
type Viewer struct {
	UserID   string
	Username string
	Role     string
}

func (v Viewer) IsStaff() bool { return v.Role == RoleStaff }

// CanAct reports whether v may modify a record owned by ownerID.
func (v Viewer) CanAct(ownerID string) bool {
	return v.IsStaff() || (v.UserID != "" && v.UserID == ownerID)
}
