package models

import (
	"time"

	"securacore-http-service/utils"

	"gorm.io/gorm"
)

// Guard shift values
const (
	ShiftDay   = "DAY"
	ShiftNight = "NIGHT"
)

// Guard represents security guards working the community gate
type Guard struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(50);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	Contact   string    `gorm:"type:varchar(20);not null" json:"contact"`
	Password  string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Shift     string    `gorm:"type:varchar(10);default:'DAY'" json:"shift"`
	Status    string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Relations
	Attendances []GuardAttendance `gorm:"foreignKey:GuardID" json:"attendances,omitempty"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (g *Guard) BeforeCreate(tx *gorm.DB) error {
	if g.Password != "" {
		hashedPassword, err := utils.HashPassword(g.Password)
		if err != nil {
			return err
		}
		g.Password = hashedPassword
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (g *Guard) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if g.Password != "" && len(g.Password) < 60 {
		hashedPassword, err := utils.HashPassword(g.Password)
		if err != nil {
			return err
		}
		g.Password = hashedPassword
	}
	return nil
}
