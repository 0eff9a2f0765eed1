package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/opdss/excelcol/excel/export"
	"github.com/opdss/excelcol/iterator"
	"gorm.io/gorm"
)

type OrderStatus int

const (
	OrderPending OrderStatus = iota + 1
	OrderPaid
	OrderShipped
	OrderCanceled
)

var orderStatusLabels = map[OrderStatus]string{
	OrderPending:  "待支付",
	OrderPaid:     "已支付",
	OrderShipped:  "已发货",
	OrderCanceled: "已取消",
}

var orderStatusNames = map[string]OrderStatus{
	"pending":  OrderPending,
	"paid":     OrderPaid,
	"shipped":  OrderShipped,
	"canceled": OrderCanceled,
}

func (s OrderStatus) Label() string {
	if l, ok := orderStatusLabels[s]; ok {
		return l
	}
	return fmt.Sprintf("未知(%d)", int(s))
}

// ParseOrderStatus 空字符串表示不过滤
func ParseOrderStatus(name string) (OrderStatus, error) {
	if name == "" {
		return 0, nil
	}
	s, ok := orderStatusNames[strings.ToLower(name)]
	if !ok {
		return 0, fmt.Errorf("unknown order status %q", name)
	}
	return s, nil
}

type Order struct {
	ID        uint        `gorm:"primaryKey" excel:"订单号,0"`
	Customer  string      `gorm:"size:64" excel:"客户,1"`
	Amount    float64     `excel:"金额,2"`
	Quantity  int         `excel:"数量,3"`
	Status    OrderStatus `gorm:"index" excel:"状态,4"`
	Remark    *string     `gorm:"size:255" excel:"备注,5"`
	CreatedAt time.Time   `excel:"下单时间,6"`
	PaidAt    *time.Time  `excel:"支付时间,7"`
	DeliverOn time.Time   `excel:"预计送达,8,date"`
}

var orderSchema = mustSchemaOf[Order]()

func mustSchemaOf[T any]() *export.Schema[T] {
	s, err := export.SchemaOf[T]()
	if err != nil {
		panic(err)
	}
	return s
}

// ordersIterator 按id分页读取订单
func ordersIterator(ctx context.Context, db *gorm.DB, status OrderStatus, pageSize int) export.Iterator[Order] {
	tx := db.Model(&Order{}).Order("id")
	if status > 0 {
		tx = tx.Where("status = ?", status)
	}
	return export.NewGormIterator[Order](tx,
		iterator.WithPageQueryIteratorLimit[Order](pageSize),
		iterator.WithPageQueryIteratorContext[Order](ctx),
	)
}

// seedOrders 表为空时写入演示数据
func seedOrders(ctx context.Context, db *gorm.DB, n int) error {
	var count int64
	if err := db.WithContext(ctx).Model(&Order{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	customers := []string{"张三", "李四", "王五", "Acme Ltd.", "Globex"}
	orders := make([]Order, 0, n)
	for i := 0; i < n; i++ {
		created := base.Add(time.Duration(i) * 7 * time.Hour)
		o := Order{
			Customer:  customers[i%len(customers)],
			Amount:    float64(i*1250) + 0.5,
			Quantity:  i%9 + 1,
			Status:    OrderStatus(i%4 + 1),
			CreatedAt: created,
		}
		if o.Status != OrderPending && o.Status != OrderCanceled {
			paid := created.Add(30 * time.Minute)
			o.PaidAt = &paid
			o.DeliverOn = created.AddDate(0, 0, 3)
		}
		if i%5 == 0 {
			remark := fmt.Sprintf("加急 #%d", i)
			o.Remark = &remark
		}
		orders = append(orders, o)
	}
	return db.WithContext(ctx).CreateInBatches(orders, 100).Error
}
