package models

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

const (
	moneyScale      = 2
	coordinateScale = 6 // 约 0.1 米
)

// 定点小数的公共编解码：JSON 输出为定长字符串，输入接受字符串或数字

func encodeFixed(d decimal.Decimal, scale int32) ([]byte, error) {
	return json.Marshal(d.StringFixed(scale))
}

func decodeFixed(b []byte, scale int32) (decimal.Decimal, error) {
	raw := bytes.TrimSpace(b)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return decimal.Zero, err
		}
		raw = []byte(s)
	}
	d, err := decimal.NewFromString(string(raw))
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", raw, err)
	}
	return d.Round(scale), nil
}

func scanFixed(value any, scale int32) (decimal.Decimal, error) {
	var d decimal.Decimal
	if err := d.Scan(value); err != nil {
		return decimal.Zero, err
	}
	return d.Round(scale), nil
}

// Money 金额与重量，保留 2 位小数
type Money struct {
	decimal.Decimal
}

// NewMoneyFromDecimal 四舍五入到 2 位
func NewMoneyFromDecimal(amount decimal.Decimal) Money {
	return Money{Decimal: amount.Round(moneyScale)}
}

// NewMoneyFromString 解析十进制字符串
func NewMoneyFromString(value string) (Money, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return Money{}, err
	}
	return NewMoneyFromDecimal(d), nil
}

func (m Money) MarshalJSON() ([]byte, error) { return encodeFixed(m.Decimal, moneyScale) }

func (m *Money) UnmarshalJSON(b []byte) (err error) {
	m.Decimal, err = decodeFixed(b, moneyScale)
	return err
}

func (m Money) Value() (driver.Value, error) { return m.Decimal.Round(moneyScale).Value() }

func (m *Money) Scan(value any) (err error) {
	m.Decimal, err = scanFixed(value, moneyScale)
	return err
}

func (m Money) String() string { return m.Decimal.StringFixed(moneyScale) }

// IsNegative 是否小于零
func (m Money) IsNegative() bool {
	return m.Decimal.Sign() < 0
}

// Coordinate 经纬度，保留 6 位小数
type Coordinate struct {
	decimal.Decimal
}

// NewCoordinate 由浮点数创建
func NewCoordinate(value float64) Coordinate {
	return Coordinate{Decimal: decimal.NewFromFloat(value).Round(coordinateScale)}
}

func (c Coordinate) MarshalJSON() ([]byte, error) { return encodeFixed(c.Decimal, coordinateScale) }

func (c *Coordinate) UnmarshalJSON(b []byte) (err error) {
	c.Decimal, err = decodeFixed(b, coordinateScale)
	return err
}

func (c Coordinate) Value() (driver.Value, error) { return c.Decimal.Round(coordinateScale).Value() }

func (c *Coordinate) Scan(value any) (err error) {
	c.Decimal, err = scanFixed(value, coordinateScale)
	return err
}

// InRange 是否落在 [-limit, limit]
func (c Coordinate) InRange(limit int64) bool {
	return c.Decimal.Abs().LessThanOrEqual(decimal.NewFromInt(limit))
}
