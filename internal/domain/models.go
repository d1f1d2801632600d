package domain

import "time"

// User is the authenticated user's profile as returned by the profile endpoints.
type User struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	Bio       string    `json:"bio,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// Article is a published editorial article.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	CategoryID string    `json:"categoryId"`
	Tags       []string  `json:"tags,omitempty"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	AuthorID   string    `json:"authorId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// Category is near-static reference data for articles and products.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Community is a discussion group users can join.
type Community struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	MemberCount int       `json:"memberCount"`
	IsMember    bool      `json:"isMember"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Post is a community post.
type Post struct {
	ID           string    `json:"id"`
	CommunityID  string    `json:"communityId"`
	AuthorID     string    `json:"authorId"`
	Title        string    `json:"title"`
	Content      string    `json:"content"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
	IsLiked      bool      `json:"isLiked"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Comment belongs to a post.
type Comment struct {
	ID        string    `json:"id"`
	PostID    string    `json:"postId"`
	AuthorID  string    `json:"authorId"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
}

// Prediction is one plant-disease prediction result.
type Prediction struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Plant      string    `json:"plant"`
	Disease    string    `json:"disease"`
	Confidence float64   `json:"confidence"`
	ImageURL   string    `json:"imageUrl,omitempty"`
	Advice     string    `json:"advice,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
}

// PredictionStats summarizes a user's prediction history.
type PredictionStats struct {
	TotalPredictions int            `json:"totalPredictions"`
	ByDisease        map[string]int `json:"byDisease,omitempty"`
	LastPredictionAt *time.Time     `json:"lastPredictionAt,omitempty"`
}

// Notification is one inbox entry.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"isRead"`
	CreatedAt time.Time `json:"createdAt"`
}

// Product is a suggested agritech product (reference data).
type Product struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	ImageURL string  `json:"imageUrl,omitempty"`
	LinkURL  string  `json:"linkUrl,omitempty"`
}
