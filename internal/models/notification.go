package models

// Notification 接收者为个人用户或 NGO 之一
type Notification struct {
	Base
	UserID  *string `gorm:"type:varchar(36);index;check:notification_one_receiver,(user_id IS NULL) <> (ngo_id IS NULL)" json:"userId"`
	NgoID   *string `gorm:"type:varchar(36);index" json:"ngoId"`
	Message string  `gorm:"type:text;not null" json:"message"`
	Link    string  `json:"link,omitempty"`
	IsRead  bool    `gorm:"default:false;index" json:"isRead"`
}
