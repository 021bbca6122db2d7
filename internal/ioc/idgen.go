package ioc

import (
	"time"

	"github.com/sony/sonyflake"
)

func InitIDGenerator() *sonyflake.Sonyflake {
	sf, err := sonyflake.New(sonyflake.Settings{
		StartTime: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		panic(err)
	}
	return sf
}
