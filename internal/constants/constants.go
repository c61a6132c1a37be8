package constants

// 用户角色常量
const (
	RoleAdmin     = "admin"
	RoleClient    = "client"
	RolePersonnel = "personnel"
)

// 运单状态常量
const (
	ShipmentStatusPending   = "pending"
	ShipmentStatusAssigned  = "assigned"
	ShipmentStatusInTransit = "in_transit"
	ShipmentStatusDelivered = "delivered"
	ShipmentStatusCancelled = "cancelled"
)

// 运单事件类型常量（除状态值外的附加类型）
const (
	ShipmentEventCreated = "created"
)

// 支付方式常量
const (
	PaymentMethodPrepaid        = "prepaid"
	PaymentMethodCashOnDelivery = "cash_on_delivery"
)

// 支付状态常量
const (
	PaymentStatusPending = "pending"
	PaymentStatusPaid    = "paid"
)

// 人员岗位常量
const (
	PositionDriver     = "driver"
	PositionDispatcher = "dispatcher"
)

// 车辆类型常量
const (
	VehicleTypeVan        = "van"
	VehicleTypeTruck      = "truck"
	VehicleTypeMotorcycle = "motorcycle"
)

// 车辆状态常量
const (
	VehicleStatusAvailable   = "available"
	VehicleStatusInUse       = "in_use"
	VehicleStatusMaintenance = "maintenance"
)

// 队列常量
const (
	QueueDefault             = "default"
	TaskShipmentStatusNotify = "shipment:status_notify"
)

// 运单号默认配置常量
const (
	TrackingNumberPrefixDefault = "TN"
	TrackingNumberDigitsDefault = 10
)

// 缓存默认配置常量
const (
	RedisPrefixDefault = "lr"
)

// 站点语言常量
const (
	LocaleZhCN = "zh-CN"
	LocaleEnUS = "en-US"
)

// SupportedLocales 支持的语言（含回退顺序）
var SupportedLocales = []string{LocaleEnUS, LocaleZhCN}
