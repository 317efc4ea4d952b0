package http

import (
	"fmt"
	"strconv"

	errorc "shanchuan/pkg/core/err"
	"shanchuan/pkg/core/logger"
	"shanchuan/pkg/core/result"
	"shanchuan/pkg/core/util"
	"shanchuan/system/transfer/api/dto"
	internalapp "shanchuan/system/transfer/internal/app"
	"shanchuan/system/transfer/internal/model"
	"shanchuan/utils"

	"github.com/gofiber/fiber/v2"
)

// TransferAPIController 闪传API控制器（上传与提取）
type TransferAPIController struct {
	app *internalapp.App
	err *errorc.ErrorBuilder
	log *logger.Log
}

// NewTransferAPIController 创建闪传API控制器
func NewTransferAPIController(app *internalapp.App) *TransferAPIController {
	return &TransferAPIController{
		app: app,
		err: errorc.NewErrorBuilder("TransferAPIController"),
		log: logger.GetLogger().WithEntryName("TransferAPIController"),
	}
}

// RegisterRoutes 注册路由
func (c *TransferAPIController) RegisterRoutes(api fiber.Router) {
	group := api.Group("/transfer")

	// 上传文件（无鉴权）
	group.Post("/upload", c.Upload)

	// 按提取码下载文件（无鉴权）
	group.Get("/:code", c.Download)

	// 按提取码查询元数据（无鉴权）
	group.Get("/:code/meta", c.Meta)
}

// Upload 上传文件并返回提取码
func (c *TransferAPIController) Upload(ctx *fiber.Ctx) error {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		return c.err.New("缺少上传文件", err).ValidWithCtx()
	}

	form := &dto.UploadForm{
		FileName: fileHeader.Filename,
		Size:     fileHeader.Size,
	}
	if msg, err := utils.Validate(form); err != nil {
		return c.err.New(msg, err).ValidWithCtx()
	}

	file, err := fileHeader.Open()
	if err != nil {
		return c.err.New("读取上传文件失败", err).ValidWithCtx()
	}
	defer file.Close()

	record, err := c.app.Upload(util.Context(ctx), &internalapp.UploadRequest{
		FileName:    fileHeader.Filename,
		Size:        fileHeader.Size,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Reader:      file,
	})
	if err != nil {
		return err
	}

	return result.OK(ctx, c.toDTO(record))
}

// Download 按提取码下载文件
// 记录不存在、已过期、文件丢失统一返回404，不泄露具体原因
func (c *TransferAPIController) Download(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	record, reader, err := c.app.Download(util.Context(ctx), code)
	if err != nil {
		if errorc.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "资源不存在或已过期")
		}
		return err
	}

	if record.ContentType != "" {
		ctx.Set(fiber.HeaderContentType, record.ContentType)
	} else {
		ctx.Set(fiber.HeaderContentType, "application/octet-stream")
	}
	ctx.Set(fiber.HeaderContentLength, strconv.FormatInt(record.Size, 10))
	ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", record.FileName))

	return ctx.SendStream(reader, int(record.Size))
}

// Meta 按提取码查询元数据
func (c *TransferAPIController) Meta(ctx *fiber.Ctx) error {
	code := ctx.Params("code")

	record, err := c.app.Meta(util.Context(ctx), code)
	if err != nil {
		if errorc.IsNotFound(err) {
			return fiber.NewError(fiber.StatusNotFound, "资源不存在或已过期")
		}
		return err
	}

	return result.OK(ctx, c.toDTO(record))
}

func (c *TransferAPIController) toDTO(record *model.TransferRecord) *dto.TransferRecordDTO {
	return &dto.TransferRecordDTO{
		Code:          record.Code,
		FileName:      record.FileName,
		Size:          record.Size,
		ContentType:   record.ContentType,
		SHA256:        record.SHA256,
		DownloadCount: record.DownloadCount,
		CreatedAt:     record.CreatedAt,
		ExpiresAt:     record.ExpiresAt(c.app.TTL()),
	}
}
