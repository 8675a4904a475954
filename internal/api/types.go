package api

import "time"

// CommentStatus is the moderation state of a comment as reported by the server.
type CommentStatus string

const (
	StatusVisible CommentStatus = "visible"
	StatusPending CommentStatus = "pending"
)

// User is the server-owned identity snapshot. The client never mutates it;
// it is replaced wholesale on re-authentication.
type User struct {
	ID          int64  `json:"id"`
	DisplayName string `json:"displayName"`
	Email       string `json:"email"`
	AvatarURL   string `json:"avatarUrl,omitempty"`
	IsAdmin     bool   `json:"isAdmin"`
}

// Comment is a single entry in a post's flat comment list. ReplyToUser is
// informational only: there is no parent comment reference and no thread tree.
type Comment struct {
	ID          int64         `json:"id"`
	Content     string        `json:"content"`
	CreatedAt   time.Time     `json:"createdAt"`
	Status      CommentStatus `json:"status"`
	User        User          `json:"user"`
	ReplyToUser *User         `json:"replyToUser,omitempty"`
}

// IsPending reports whether the comment awaits moderation.
func (c Comment) IsPending() bool { return c.Status == StatusPending }

type meResponse struct {
	User User `json:"user"`
}

type sendOTPRequest struct {
	Email          string `json:"email"`
	DisplayName    string `json:"displayName"`
	TurnstileToken string `json:"turnstileToken,omitempty"`
}

type verifyOTPRequest struct {
	Email       string `json:"email"`
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

// VerifyResult is the payload of a successful OTP verification.
type VerifyResult struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type listCommentsResponse struct {
	Comments []Comment `json:"comments"`
}

type postCommentRequest struct {
	PostSlug      string `json:"postSlug"`
	Content       string `json:"content"`
	ReplyToUserID int64  `json:"replyToUserId,omitempty"`
}

type postCommentResponse struct {
	Comment struct {
		Status CommentStatus `json:"status"`
	} `json:"comment"`
}

type errorResponse struct {
	Error string `json:"error"`
}
