package model

import "time"

const TableNameRouteSetting = "route_settings"

type RouteSetting struct {
	Key       string    `gorm:"column:key;primaryKey" json:"key"`
	Value     string    `gorm:"column:value;not null" json:"value"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`
}

func (*RouteSetting) TableName() string {
	return TableNameRouteSetting
}
