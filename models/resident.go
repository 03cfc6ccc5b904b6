package models

import (
	"time"

	"securacore-http-service/utils"

	"gorm.io/gorm"
)

// Resident represents community residents
type Resident struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	Name             string    `gorm:"type:varchar(50);not null" json:"name"`
	FlatNo           string    `gorm:"type:varchar(20);not null;index" json:"flat_no"` // 单元号，访客/快递/投诉的归属键
	Email            string    `gorm:"type:varchar(100)" json:"email"`
	Contact          string    `gorm:"type:varchar(20);not null" json:"contact"`
	EmergencyContact string    `gorm:"type:varchar(20)" json:"emergency_contact"`
	Password         string    `gorm:"type:varchar(100);not null" json:"-"` // 不在JSON中暴露密码
	Status           string    `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// BeforeCreate 是一个GORM钩子，在创建新记录前运行
func (r *Resident) BeforeCreate(tx *gorm.DB) error {
	// 如果提供了密码，对其进行哈希处理
	if r.Password != "" {
		hashedPassword, err := utils.HashPassword(r.Password)
		if err != nil {
			return err
		}
		r.Password = hashedPassword
	}
	return nil
}

// BeforeSave 是一个GORM钩子，在保存记录前运行
func (r *Resident) BeforeSave(tx *gorm.DB) error {
	// 如果提供了密码且不是已哈希的，对其进行哈希处理
	if r.Password != "" && len(r.Password) < 60 {
		hashedPassword, err := utils.HashPassword(r.Password)
		if err != nil {
			return err
		}
		r.Password = hashedPassword
	}
	return nil
}
