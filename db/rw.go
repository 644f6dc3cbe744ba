package db

import (
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type RwConfig struct {
	Write Config `help:"写库"`
	Read  Config `help:"读库，大批量导出走这里"`
}

// RwPair 读写库对，导出查询从只读副本拉取，避免拖慢主库
type RwPair struct {
	write *gorm.DB
	read  *gorm.DB
}

func NewRwPair(logger *zap.Logger, conf RwConfig) (_ *RwPair, err error) {
	p := &RwPair{}
	if p.write, err = NewDB(logger, conf.Write); err != nil {
		return nil, err
	}
	if p.read, err = NewDB(logger, conf.Read); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *RwPair) Write() *gorm.DB {
	return p.write
}

func (p *RwPair) Read() *gorm.DB {
	return p.read
}
