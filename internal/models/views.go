package models

import "time"

// UserRef is the public projection of a user embedded in other views.
type UserRef struct {
	ID     uint   `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// CommentView is a comment with its author expanded.
type CommentView struct {
	ID        uint      `json:"id"`
	Text      string    `json:"text"`
	User      UserRef   `json:"user"`
	CreatedAt time.Time `json:"createdAt"`
}

// PostView is the display-ready form of a post.
type PostView struct {
	ID         uint          `json:"id"`
	Caption    string        `json:"caption"`
	ImageURL   string        `json:"imageUrl"`
	User       UserRef       `json:"user"`
	Likes      []uint        `json:"likes"`
	LikesCount int           `json:"likesCount"`
	Liked      bool          `json:"liked"`
	Comments   []CommentView `json:"comments"`
	CreatedAt  time.Time     `json:"createdAt"`
}

// ProfileView is a user with their posts, newest first.
type ProfileView struct {
	ID        uint       `json:"id"`
	Email     string     `json:"email,omitempty"`
	Name      string     `json:"name"`
	Image     string     `json:"image"`
	Bio       string     `json:"bio"`
	Posts     []PostView `json:"posts"`
	CreatedAt time.Time  `json:"createdAt"`
}

// NewUserRef projects a user to {id, name, avatar}.
func NewUserRef(u User) UserRef {
	return UserRef{ID: u.ID, Name: u.Name, Avatar: u.Image}
}

// NewPostView expands a post loaded with its owner, likes and comment
// authors. viewerID marks whether the requesting user is in the like set.
func NewPostView(p *Post, viewerID uint) PostView {
	view := PostView{
		ID:        p.ID,
		Caption:   p.Caption,
		ImageURL:  p.ImageURL,
		User:      NewUserRef(p.User),
		Likes:     make([]uint, 0, len(p.Likes)),
		Comments:  make([]CommentView, 0, len(p.Comments)),
		CreatedAt: p.CreatedAt,
	}
	if view.User.ID == 0 {
		view.User.ID = p.UserID
	}

	for _, like := range p.Likes {
		view.Likes = append(view.Likes, like.UserID)
		if viewerID != 0 && like.UserID == viewerID {
			view.Liked = true
		}
	}
	view.LikesCount = len(view.Likes)

	for _, c := range p.Comments {
		author := NewUserRef(c.User)
		if author.ID == 0 {
			author.ID = c.UserID
		}
		view.Comments = append(view.Comments, CommentView{
			ID:        c.ID,
			Text:      c.Text,
			User:      author,
			CreatedAt: c.CreatedAt,
		})
	}

	return view
}

// NewPostViews assembles a list of posts in order.
func NewPostViews(posts []*Post, viewerID uint) []PostView {
	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, NewPostView(p, viewerID))
	}
	return views
}

// NewProfileView assembles a user with their posts. The email is only
// included when the viewer is the user.
func NewProfileView(u *User, viewerID uint) ProfileView {
	view := ProfileView{
		ID:        u.ID,
		Name:      u.Name,
		Image:     u.Image,
		Bio:       u.Bio,
		Posts:     make([]PostView, 0, len(u.Posts)),
		CreatedAt: u.CreatedAt,
	}
	owner := NewUserRef(*u)
	for i := range u.Posts {
		pv := NewPostView(&u.Posts[i], viewerID)
		pv.User = owner
		view.Posts = append(view.Posts, pv)
	}
	if viewerID == u.ID {
		view.Email = u.Email
	}
	return view
}
