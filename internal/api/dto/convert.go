package dto

import (
	"github.com/jinzhu/copier"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

var copyOption = copier.Option{
	Converters: []copier.TypeConverter{
		{
			SrcType: primitive.ObjectID{},
			DstType: copier.String,
			Fn: func(src interface{}) (interface{}, error) {
				return src.(primitive.ObjectID).Hex(), nil
			},
		},
		{
			SrcType: []primitive.ObjectID{},
			DstType: []string{},
			Fn: func(src interface{}) (interface{}, error) {
				return HexIDs(src.([]primitive.ObjectID)), nil
			},
		},
	},
}

// Copy 模型到 DTO 的字段拷贝，ObjectID 转为十六进制字符串
func Copy(to, from interface{}) error {
	return copier.CopyWithOption(to, from, copyOption)
}

// HexIDs ObjectID 列表转字符串列表
func HexIDs(ids []primitive.ObjectID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.Hex())
	}
	return out
}
