package sink

import (
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/yhassan-git-real/DBExportHub/contracts/sink"
)

func newTestExcel(t *testing.T) (*Excel, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "out.xlsx")
	e, err := NewExcel(path)
	require.NoError(t, err)
	return e, path
}

func readRows(t *testing.T, path string) [][]string {
	t.Helper()
	fp, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = fp.Close()
	}()
	rows, err := fp.GetRows(DefaultSheetName)
	require.NoError(t, err)
	return rows
}

func TestExcelWriteAndFinalize(t *testing.T) {
	e, path := newTestExcel(t)
	defer func() {
		_ = e.Close()
	}()

	style, err := e.NewStyle(&sink.StyleSpec{
		FontName: "Times New Roman",
		FontSize: 10,
		Bold:     true,
		Border:   true,
	})
	require.NoError(t, err)

	require.NoError(t, e.WriteCell(0, 0, "HS_Code", style))
	require.NoError(t, e.WriteCell(0, 1, "Qty", style))
	require.NoError(t, e.SetRowHeight(0, 20))
	require.NoError(t, e.WriteCell(1, 0, "850110", sink.StyleNone))
	require.NoError(t, e.WriteCell(1, 1, 12.5, sink.StyleNone))
	require.NoError(t, e.Finalize())

	rows := readRows(t, path)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"HS_Code", "Qty"}, rows[0])
	assert.Equal(t, "850110", rows[1][0])
}

func TestExcelRowOrderEnforced(t *testing.T) {
	e, _ := newTestExcel(t)
	defer func() {
		_ = e.Close()
	}()

	require.NoError(t, e.WriteCell(5, 0, "a", sink.StyleNone))
	//同一行可以继续写
	require.NoError(t, e.WriteCell(5, 1, "b", sink.StyleNone))
	//回退写已冲刷的行要报错
	require.NoError(t, e.WriteCell(6, 0, "c", sink.StyleNone))
	err := e.WriteCell(5, 2, "d", sink.StyleNone)
	require.Error(t, err)

	err = e.SetRowHeight(5, 15)
	require.Error(t, err)
}

func TestExcelScrubNaNInf(t *testing.T) {
	e, path := newTestExcel(t)
	defer func() {
		_ = e.Close()
	}()

	require.NoError(t, e.WriteCell(0, 0, math.NaN(), sink.StyleNone))
	require.NoError(t, e.WriteCell(0, 1, math.Inf(1), sink.StyleNone))
	require.NoError(t, e.WriteCell(0, 2, 1.5, sink.StyleNone))
	require.NoError(t, e.Finalize())

	fp, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = fp.Close()
	}()
	a, err := fp.GetCellValue(DefaultSheetName, "A1")
	require.NoError(t, err)
	b, err := fp.GetCellValue(DefaultSheetName, "B1")
	require.NoError(t, err)
	c, err := fp.GetCellValue(DefaultSheetName, "C1")
	require.NoError(t, err)
	assert.Empty(t, a)
	assert.Empty(t, b)
	assert.Equal(t, "1.5", c)
}

func TestExcelDateStyle(t *testing.T) {
	e, path := newTestExcel(t)
	defer func() {
		_ = e.Close()
	}()

	date, err := e.NewStyle(&sink.StyleSpec{
		FontName:  "Times New Roman",
		FontSize:  10,
		NumFormat: "dd-mmm-yy",
	})
	require.NoError(t, err)
	require.NoError(t, e.WriteCell(0, 0, time.Date(2023, 1, 5, 0, 0, 0, 0, time.UTC), date))
	require.NoError(t, e.Finalize())

	fp, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() {
		_ = fp.Close()
	}()
	v, err := fp.GetCellValue(DefaultSheetName, "A1")
	require.NoError(t, err)
	assert.Equal(t, "05-Jan-23", v)
}

func TestExcelWriteAfterFinalize(t *testing.T) {
	e, _ := newTestExcel(t)
	defer func() {
		_ = e.Close()
	}()

	require.NoError(t, e.WriteCell(0, 0, "x", sink.StyleNone))
	require.NoError(t, e.Finalize())
	require.Error(t, e.WriteCell(1, 0, "y", sink.StyleNone))
	//重复Finalize幂等
	require.NoError(t, e.Finalize())
}
