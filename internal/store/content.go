package store

import (
	"context"
	"strings"

	"ngosocial/internal/models"

	"gorm.io/gorm"
)

// 列表排序方式
const (
	SortNew = "new"
	SortHot = "hot"
)

type ListQuery struct {
	Sort  string
	Title string // case-insensitive substring match
	Limit int
}

func (q ListQuery) apply(tx *gorm.DB) *gorm.DB {
	if q.Title != "" {
		tx = tx.Where("LOWER(title) LIKE ?", "%"+strings.ToLower(q.Title)+"%")
	}
	if q.Sort == SortHot {
		tx = tx.Order("score DESC")
	}
	tx = tx.Order("created_at DESC")
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}

func newestFirst(tx *gorm.DB) *gorm.DB { return tx.Order("created_at DESC") }
func oldestFirst(tx *gorm.DB) *gorm.DB { return tx.Order("created_at ASC") }

// withPostGraph 帖子评论是平铺的
func withPostGraph(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Votes").
		Preload("Comments", newestFirst).
		Preload("Comments.Votes")
}

// withIssueGraph 只取顶层评论，回复挂在 Replies 下
func withIssueGraph(tx *gorm.DB) *gorm.DB {
	return tx.Preload("Votes").
		Preload("Comments", func(db *gorm.DB) *gorm.DB {
			return db.Where("parent_id IS NULL").Order("created_at DESC")
		}).
		Preload("Comments.Votes").
		Preload("Comments.Replies", oldestFirst).
		Preload("Comments.Replies.Votes")
}

func withCampaignGraph(tx *gorm.DB) *gorm.DB {
	return tx.Preload("JoinedUsers").
		Preload("JoinedNgos").
		Preload("Broadcasts", newestFirst).
		Preload("Transactions")
}

func (s *Store) CreatePost(ctx context.Context, p *models.Post) error {
	return translate(s.conn(ctx).Create(p).Error, "post")
}

func (s *Store) FindPost(ctx context.Context, id string) (*models.Post, error) {
	var p models.Post
	if err := withPostGraph(s.conn(ctx)).First(&p, "id = ?", id).Error; err != nil {
		return nil, translate(err, "post")
	}
	return &p, nil
}

func (s *Store) ListPosts(ctx context.Context, q ListQuery) ([]models.Post, error) {
	var posts []models.Post
	err := q.apply(withPostGraph(s.conn(ctx))).Find(&posts).Error
	return posts, translate(err, "post")
}

func (s *Store) CreateIssue(ctx context.Context, i *models.Issue) error {
	return translate(s.conn(ctx).Create(i).Error, "issue")
}

func (s *Store) FindIssue(ctx context.Context, id string) (*models.Issue, error) {
	var i models.Issue
	if err := withIssueGraph(s.conn(ctx)).First(&i, "id = ?", id).Error; err != nil {
		return nil, translate(err, "issue")
	}
	return &i, nil
}

func (s *Store) ListIssues(ctx context.Context, q ListQuery) ([]models.Issue, error) {
	var issues []models.Issue
	err := q.apply(withIssueGraph(s.conn(ctx))).Find(&issues).Error
	return issues, translate(err, "issue")
}

func (s *Store) CreateCampaign(ctx context.Context, c *models.Campaign) error {
	return translate(s.conn(ctx).Create(c).Error, "campaign")
}

func (s *Store) FindCampaign(ctx context.Context, id string) (*models.Campaign, error) {
	var c models.Campaign
	if err := withCampaignGraph(s.conn(ctx)).First(&c, "id = ?", id).Error; err != nil {
		return nil, translate(err, "campaign")
	}
	return &c, nil
}

func (s *Store) ListCampaigns(ctx context.Context, q ListQuery) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	err := q.apply(withCampaignGraph(s.conn(ctx))).Find(&campaigns).Error
	return campaigns, translate(err, "campaign")
}

func (s *Store) CreateBroadcast(ctx context.Context, b *models.CampaignBroadcast) error {
	return translate(s.conn(ctx).Create(b).Error, "broadcast")
}

func (s *Store) FindBroadcast(ctx context.Context, id string) (*models.CampaignBroadcast, error) {
	var b models.CampaignBroadcast
	if err := s.conn(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, translate(err, "broadcast")
	}
	return &b, nil
}

func (s *Store) DeleteBroadcast(ctx context.Context, b *models.CampaignBroadcast) error {
	return translate(s.conn(ctx).Delete(b).Error, "broadcast")
}

func (s *Store) CreateFundRaising(ctx context.Context, f *models.FundRaising) error {
	return translate(s.conn(ctx).Create(f).Error, "fundraising")
}

func (s *Store) FindFundRaising(ctx context.Context, id string) (*models.FundRaising, error) {
	var f models.FundRaising
	if err := s.conn(ctx).Preload("Transactions").First(&f, "id = ?", id).Error; err != nil {
		return nil, translate(err, "fundraising")
	}
	return &f, nil
}

func (s *Store) ListFundRaisings(ctx context.Context, q ListQuery) ([]models.FundRaising, error) {
	var out []models.FundRaising
	q.Sort = SortNew
	err := q.apply(s.conn(ctx).Preload("Transactions")).Find(&out).Error
	return out, translate(err, "fundraising")
}
