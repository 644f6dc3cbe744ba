package export

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"

	"github.com/yhassan-git-real/DBExportHub/contracts/cursor"
)

// Wildcard 查询条件的通配符，等同于未设置
const Wildcard = "%"

// FilterSet 导出查询条件，所有字段均可为空，"%"视为未设置
type FilterSet struct {
	Hs        string //HS编码，逗号分隔时只取第一段
	Prod      string //产品
	Iec       string //IEC编码
	ExpCmp    string //出口公司
	ForCount  string //目的国
	ForName   string //国外进口商
	Port      string //港口
	FromMonth string //起始月份 YYYYMM
	ToMonth   string //结束月份 YYYYMM
}

var monthNames = map[string]string{
	"01": "JAN", "02": "FEB", "03": "MAR", "04": "APR",
	"05": "MAY", "06": "JUN", "07": "JUL", "08": "AUG",
	"09": "SEP", "10": "OCT", "11": "NOV", "12": "DEC",
}

// monthLabel YYYYMM -> MON+YY，如 202301 -> JAN23
func monthLabel(ym string) (string, error) {
	if len(ym) != 6 {
		return "", ErrInvalidArgument.New("year-month must be a 6-digit string, got %q", ym)
	}
	for _, c := range ym {
		if c < '0' || c > '9' {
			return "", ErrInvalidArgument.New("year-month must be a 6-digit string, got %q", ym)
		}
	}
	mon, ok := monthNames[ym[4:6]]
	if !ok {
		return "", ErrInvalidArgument.New("year-month %q has month outside 01-12", ym)
	}
	return mon + ym[2:4], nil
}

func unset(v string) bool {
	return v == "" || v == Wildcard
}

// ComposeFilename 根据查询条件生成导出文件名
// 条件全为空时取fallback首列前8个字符，仍为空时用 Export
// 最终格式 {label}_{MONYY[-MONYY]}EXP.xlsx
func ComposeFilename(f FilterSet, fallback cursor.Row) (string, error) {
	mon1, err := monthLabel(f.FromMonth)
	if err != nil {
		return "", err
	}
	mon2, err := monthLabel(f.ToMonth)
	if err != nil {
		return "", err
	}
	monthYear := mon1
	if mon1 != mon2 {
		monthYear = mon1 + "-" + mon2
	}

	var sb strings.Builder
	if !unset(f.Hs) {
		hs := strings.ReplaceAll(strings.TrimSpace(f.Hs), " ", "")
		sb.WriteString("_" + strings.SplitN(hs, ",", 2)[0])
	}
	for _, v := range []string{f.Prod, f.Iec, f.ExpCmp, f.ForCount, f.ForName, f.Port} {
		if !unset(v) {
			sb.WriteString("_" + strings.ReplaceAll(v, " ", "_"))
		}
	}
	label := strings.TrimPrefix(sb.String(), "_")

	if label == "" {
		if len(fallback) > 0 {
			first := strings.TrimSpace(cast.ToString(fallback[0]))
			if r := []rune(first); len(r) > 8 {
				first = string(r[:8])
			}
			label = first
		}
		if label == "" {
			label = "Export"
		}
	}
	return fmt.Sprintf("%s_%sEXP.xlsx", label, monthYear), nil
}
