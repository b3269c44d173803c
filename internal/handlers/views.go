package handlers

import (
	"ngosocial/internal/engagement"
	"ngosocial/internal/models"
)

// 响应中的实体 = 实体本身 + 针对当前查看者的派生状态

type PostView struct {
	*models.Post
	Viewer engagement.Annotation `json:"loggedInUserOrNgoDetails"`
}

type IssueView struct {
	*models.Issue
	Viewer engagement.Annotation `json:"loggedInUserOrNgoDetails"`
}

type CampaignView struct {
	*models.Campaign
	Viewer engagement.Annotation `json:"loggedInUserOrNgoDetails"`
}

type FundRaisingView struct {
	*models.FundRaising
	Viewer engagement.Annotation `json:"loggedInUserOrNgoDetails"`
}

// Projection builds views for one viewer.
type Projection struct {
	viewer    engagement.Principal
	projector engagement.Projector
}

func (p Projection) Post(post *models.Post) PostView {
	return PostView{Post: post, Viewer: p.projector.Project(post.Entity(), p.viewer)}
}

func (p Projection) Posts(posts []models.Post) []PostView {
	out := make([]PostView, len(posts))
	for i := range posts {
		out[i] = p.Post(&posts[i])
	}
	return out
}

func (p Projection) Issue(issue *models.Issue) IssueView {
	return IssueView{Issue: issue, Viewer: p.projector.Project(issue.Entity(), p.viewer)}
}

func (p Projection) Issues(issues []models.Issue) []IssueView {
	out := make([]IssueView, len(issues))
	for i := range issues {
		out[i] = p.Issue(&issues[i])
	}
	return out
}

func (p Projection) Campaign(c *models.Campaign) CampaignView {
	return CampaignView{Campaign: c, Viewer: p.projector.Project(c.Entity(), p.viewer)}
}

func (p Projection) Campaigns(cs []models.Campaign) []CampaignView {
	out := make([]CampaignView, len(cs))
	for i := range cs {
		out[i] = p.Campaign(&cs[i])
	}
	return out
}

func (p Projection) FundRaising(f *models.FundRaising) FundRaisingView {
	return FundRaisingView{FundRaising: f, Viewer: p.projector.Project(f.Entity(), p.viewer)}
}

func (p Projection) FundRaisings(fs []models.FundRaising) []FundRaisingView {
	out := make([]FundRaisingView, len(fs))
	for i := range fs {
		out[i] = p.FundRaising(&fs[i])
	}
	return out
}

// UserView is a user with each created post projected for the viewer.
type UserView struct {
	*models.User
	CreatedPosts []PostView `json:"createdPosts"`
}

type NgoView struct {
	*models.Ngo
	CreatedPosts []PostView `json:"createdPosts"`
}

func (p Projection) Users(users []models.User) []UserView {
	out := make([]UserView, len(users))
	for i := range users {
		out[i] = UserView{User: &users[i], CreatedPosts: p.Posts(users[i].CreatedPosts)}
	}
	return out
}

func (p Projection) Ngos(ngos []models.Ngo) []NgoView {
	out := make([]NgoView, len(ngos))
	for i := range ngos {
		out[i] = NgoView{Ngo: &ngos[i], CreatedPosts: p.Posts(ngos[i].CreatedPosts)}
	}
	return out
}
