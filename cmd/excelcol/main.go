package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/opdss/excelcol/cfgstruct"
	"github.com/opdss/excelcol/contracts/excel"
	"github.com/opdss/excelcol/db"
	"github.com/opdss/excelcol/excel/export"
	"github.com/opdss/excelcol/logger"
	"github.com/opdss/excelcol/process"
	httpserver "github.com/opdss/excelcol/server/http"
	"github.com/opdss/excelcol/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ExportConfig struct {
	MaxRows   int    `help:"单次导出最大行数" default:"100000"`
	SheetName string `help:"工作表名称" default:"Orders"`
	PageSize  int    `help:"分页查询每页数量" default:"2000"`
	Seed      int    `help:"订单表为空时写入的演示数据条数" default:"50"`
}

type Config struct {
	Log     logger.Config
	DB      db.Config
	Server  httpserver.Config
	Storage storage.Config
	Export  ExportConfig
}

var (
	runCfg Config

	exportFlags struct {
		Out    string `help:"导出到本地文件路径" default:"orders.xlsx"`
		Format string `help:"导出格式,可选[xlsx|csv]" default:"xlsx"`
		Status string `help:"按订单状态过滤,可选[pending|paid|shipped|canceled]" default:""`
		Name   string `help:"上传存储时的文件名" default:"orders"`
		Upload bool   `help:"上传到存储并输出下载地址" default:"false"`
	}

	rootCmd = &cobra.Command{
		Use:   "excelcol",
		Short: "按列声明把订单导出为excel",
	}
	serveCmd = &cobra.Command{
		Use:   "serve",
		Short: "启动导出http服务",
		RunE:  cmdServe,
	}
	exportCmd = &cobra.Command{
		Use:   "export",
		Short: "导出订单到本地文件或存储",
		RunE:  cmdExport,
	}
)

func defaultRoot() string {
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".excelcol")
	}
	return ".excelcol"
}

func init() {
	root := defaultRoot()
	rootCmd.PersistentFlags().String("config-dir", root, "配置目录，读取其中的config.yaml")
	rootCmd.AddCommand(serveCmd, exportCmd)
	for _, cmd := range []*cobra.Command{serveCmd, exportCmd} {
		process.Bind(cmd, &runCfg, cfgstruct.Root(root))
	}
	process.Bind(exportCmd, &exportFlags)
}

func main() {
	process.ExecWithOptions(rootCmd, process.ExecOptions{Log: &runCfg.Log})
}

func openDB(ctx context.Context, log *zap.Logger) (*gorm.DB, error) {
	gdb, err := db.NewDB(ctx, log, runCfg.DB)
	if err != nil {
		return nil, err
	}
	if err := gdb.WithContext(ctx).AutoMigrate(&Order{}); err != nil {
		return nil, err
	}
	if err := seedOrders(ctx, gdb, runCfg.Export.Seed); err != nil {
		return nil, err
	}
	return gdb, nil
}

func exportOptions(log *zap.Logger, conf ExportConfig) []export.Option {
	return []export.Option{
		export.WithMaxRows(conf.MaxRows),
		export.WithSheetName(conf.SheetName),
		export.WithLogger(log),
	}
}

// orderSource 按 status 参数过滤订单
func orderSource(gdb *gorm.DB, pageSize int) httpserver.Source[Order] {
	return func(c *gin.Context) (export.Iterator[Order], error) {
		status, err := ParseOrderStatus(c.Query("status"))
		if err != nil {
			return nil, httpserver.ErrInvalidQuery.Wrap(err)
		}
		return ordersIterator(c.Request.Context(), gdb, status, pageSize), nil
	}
}

func cmdServe(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.Ctx(cmd)
	defer cancel()
	log := zap.L()

	gdb, err := openDB(ctx, log)
	if err != nil {
		return err
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.GET("/orders/export", httpserver.ExportHandler(log, orderSchema,
		orderSource(gdb, runCfg.Export.PageSize), exportOptions(log, runCfg.Export)...))
	if runCfg.Storage.Driver == storage.DriverLocal {
		engine.Static("/files", runCfg.Storage.Local.Root)
	}

	return httpserver.NewServer(engine, log, runCfg.Server).Run(ctx)
}

func cmdExport(cmd *cobra.Command, args []string) error {
	ctx, cancel := process.Ctx(cmd)
	defer cancel()
	log := zap.L()

	status, err := ParseOrderStatus(exportFlags.Status)
	if err != nil {
		return err
	}
	gdb, err := openDB(ctx, log)
	if err != nil {
		return err
	}

	opts := append(exportOptions(log, runCfg.Export), export.WithFilename(exportFlags.Name))
	it := ordersIterator(ctx, gdb, status, runCfg.Export.PageSize)
	var exporter excel.Exporter
	switch exportFlags.Format {
	case httpserver.FormatXlsx:
		exporter = export.NewExcel(orderSchema, it, opts...)
	case httpserver.FormatCsv:
		exporter = export.NewCsv(orderSchema, it, opts...)
	default:
		return fmt.Errorf("unsupported format: %s", exportFlags.Format)
	}

	if exportFlags.Upload {
		fs, err := storage.New(ctx, runCfg.Storage)
		if err != nil {
			return err
		}
		url, err := exporter.ExportToStorage(ctx, fs)
		if err != nil {
			return err
		}
		log.Info("export uploaded", zap.String("url", url))
		_, err = fmt.Fprintln(cmd.OutOrStdout(), url)
		return err
	}

	err = process.AtomicWriteFile(exportFlags.Out, func(f *os.File) error {
		_, err := exporter.ExportTo(ctx, f)
		return err
	}, 0o644)
	if err != nil {
		return err
	}
	log.Info("export written", zap.String("path", exportFlags.Out))
	return nil
}
