package repository

// UserListFilter 查询用户列表的过滤条件
type UserListFilter struct {
	Page     int
	PageSize int
	Role     string
	Keyword  string
}

// ShipmentListFilter 查询运单列表的过滤条件
// ClientID / DriverID 为 0 表示不限制
type ShipmentListFilter struct {
	Page     int
	PageSize int
	ClientID uint
	DriverID uint
	Status   string
	Keyword  string
}

// PersonnelListFilter 查询人员列表的过滤条件
type PersonnelListFilter struct {
	Page       int
	PageSize   int
	Position   string
	ActiveOnly bool
}

// VehicleListFilter 查询车辆列表的过滤条件
type VehicleListFilter struct {
	Page        int
	PageSize    int
	Status      string
	VehicleType string
}
