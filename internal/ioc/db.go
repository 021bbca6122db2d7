package ioc

import (
	"gitee.com/flycash/webpush-platform/internal/repository/dao"
	"github.com/ego-component/egorm"
	"github.com/gotomicro/ego/core/econf"
)

// InitSubscriptionDAO 默认存内存，storage.driver=mysql 时落库
func InitSubscriptionDAO() dao.SubscriptionDAO {
	driver := econf.GetString("storage.driver")
	switch driver {
	case "mysql":
		db := InitDB()
		return dao.NewSubscriptionDAO(db)
	case "memory", "":
		return dao.NewMemorySubscriptionDAO()
	default:
		panic("未知的存储实现: " + driver)
	}
}

func InitDB() *egorm.Component {
	db := egorm.Load("mysql").Build()
	err := dao.InitTables(db)
	if err != nil {
		panic(err)
	}
	return db
}
