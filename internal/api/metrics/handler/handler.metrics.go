// Package metricshdl - Handler cho các endpoint unified metrics của guide.
package metricshdl

import (
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basehdl "meta_tourism/internal/api/base/handler"
	metricsdto "meta_tourism/internal/api/metrics/dto"
	metricssvc "meta_tourism/internal/api/metrics/service"
	tourmodels "meta_tourism/internal/api/tour/models"
	"meta_tourism/internal/common"
	"meta_tourism/internal/global"
)

// MetricsHandler xử lý các request metrics.
type MetricsHandler struct {
	Service      *metricssvc.MetricsService
	Guides       metricssvc.GuideRepo
	snapshotColl *mongo.Collection
}

// NewMetricsHandler tạo mới MetricsHandler với đầy đủ dependency.
func NewMetricsHandler() (*MetricsHandler, error) {
	repos, err := metricssvc.NewMongoRepos()
	if err != nil {
		return nil, fmt.Errorf("create metrics repos: %w", err)
	}
	snapshotColl, ok := global.RegistryCollections.Get(global.MongoDB_ColNames.MetricsSnapshots)
	if !ok {
		return nil, fmt.Errorf("collection metrics_snapshots chưa được đăng ký")
	}
	timeout := time.Duration(global.ServerConfig.MetricsTimeoutSeconds) * time.Second
	return &MetricsHandler{
		Service:      metricssvc.NewMetricsService(repos, timeout, global.ServerConfig.MetricsPeerLimit),
		Guides:       repos.Guides,
		snapshotColl: snapshotColl,
	}, nil
}

// callerScope dựng scope của principal từ locals mà middleware đã set.
// Không có branch context nào -> scope rỗng, resolver sẽ fail-closed.
func callerScope(c fiber.Ctx) metricssvc.ScopeContext {
	if all, ok := c.Locals("scope_all_branches").(bool); ok && all {
		return metricssvc.SuperScope()
	}
	if branchIDStr, ok := c.Locals("active_branch_id").(string); ok {
		if branchID, err := primitive.ObjectIDFromHex(branchIDStr); err == nil {
			return metricssvc.BranchScope(branchID)
		}
	}
	return metricssvc.ScopeContext{}
}

// parseMetricsRequest đọc và validate guideId + query params chung của hai
// endpoint metrics.
func parseMetricsRequest(c fiber.Ctx) (primitive.ObjectID, metricssvc.Period, metricssvc.Options, error) {
	guideID, err := primitive.ObjectIDFromHex(c.Params("guideId"))
	if err != nil {
		return primitive.NilObjectID, metricssvc.Period{}, metricssvc.Options{},
			common.NewError(common.ErrCodeValidationInput, "guideId không hợp lệ", common.StatusBadRequest, nil)
	}

	var query metricsdto.UnifiedMetricsQuery
	if err := c.Bind().Query(&query); err != nil {
		return primitive.NilObjectID, metricssvc.Period{}, metricssvc.Options{},
			common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	if err := global.Validate.Struct(&query); err != nil {
		return primitive.NilObjectID, metricssvc.Period{}, metricssvc.Options{},
			common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error())
	}
	period, err := query.ToPeriod()
	if err != nil {
		return primitive.NilObjectID, metricssvc.Period{}, metricssvc.Options{}, err
	}
	return guideID, period, query.ToOptions(), nil
}

// HandleGetUnifiedMetrics xử lý GET /guides/:guideId/metrics — snapshot unified
// metrics của guide theo chu kỳ yêu cầu.
func (h *MetricsHandler) HandleGetUnifiedMetrics(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		guideID, period, opts, err := parseMetricsRequest(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		metrics, err := h.Service.CalculateUnifiedMetrics(c.Context(), callerScope(c), guideID, period, opts)
		basehdl.HandleResponse(c, metrics, err)
		return nil
	})
}

// HandleExportMetrics xử lý GET /guides/:guideId/metrics/export — workbook
// Excel của cùng snapshot.
func (h *MetricsHandler) HandleExportMetrics(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		guideID, period, opts, err := parseMetricsRequest(c)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}
		metrics, err := h.Service.CalculateUnifiedMetrics(c.Context(), callerScope(c), guideID, period, opts)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		guideName := guideID.Hex()
		if guide, err := h.Guides.FindByID(c.Context(), guideID); err == nil {
			guideName = guide.Name
		}
		buf, err := metricssvc.ExportExcel(guideName, metrics)
		if err != nil {
			basehdl.HandleResponse(c, nil, err)
			return nil
		}

		filename := fmt.Sprintf("guide-metrics-%s-%s.xlsx", guideID.Hex(), period.Start.Format("2006-01"))
		c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
		return c.Send(buf.Bytes())
	})
}

// HandleListSnapshots xử lý GET /metric-snapshot — danh sách snapshot đã tính
// trước, có phân trang, filter theo phạm vi chi nhánh của caller.
// Response format chuẩn phân trang: { page, limit, itemCount, items, total, totalPage }.
func (h *MetricsHandler) HandleListSnapshots(c fiber.Ctx) error {
	return basehdl.SafeHandler(c, func() error {
		var query metricsdto.SnapshotListQuery
		if err := c.Bind().Query(&query); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}
		if err := global.Validate.Struct(&query); err != nil {
			basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, common.MsgValidationError, common.StatusBadRequest, err.Error()))
			return nil
		}
		if query.Limit <= 0 {
			query.Limit = 20
		}
		if query.Page < 1 {
			query.Page = 1
		}

		filter := bson.M{}
		scope := callerScope(c)
		if !scope.AllBranches {
			if scope.BranchID.IsZero() {
				basehdl.HandleResponse(c, nil, common.ErrScopeResolution)
				return nil
			}
			filter["branchId"] = scope.BranchID
		}
		if query.GuideID != "" {
			guideID, err := primitive.ObjectIDFromHex(query.GuideID)
			if err != nil {
				basehdl.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationInput, "guideId không hợp lệ", common.StatusBadRequest, nil))
				return nil
			}
			filter["guideId"] = guideID
		}
		if query.PeriodType != "" {
			filter["periodType"] = query.PeriodType
		}

		total, err := h.snapshotColl.CountDocuments(c.Context(), filter)
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ConvertMongoError(err))
			return nil
		}
		opts := options.Find().
			SetSort(bson.D{{Key: "periodStart", Value: -1}}).
			SetSkip((query.Page - 1) * query.Limit).
			SetLimit(query.Limit)
		cursor, err := h.snapshotColl.Find(c.Context(), filter, opts)
		if err != nil {
			basehdl.HandleResponse(c, nil, common.ConvertMongoError(err))
			return nil
		}
		defer cursor.Close(c.Context())

		items := []tourmodels.MetricsSnapshot{}
		if err := cursor.All(c.Context(), &items); err != nil {
			basehdl.HandleResponse(c, nil, common.ConvertMongoError(err))
			return nil
		}

		totalPage := total / query.Limit
		if total%query.Limit > 0 {
			totalPage++
		}
		basehdl.HandleResponse(c, fiber.Map{
			"page":      query.Page,
			"limit":     query.Limit,
			"itemCount": len(items),
			"items":     items,
			"total":     total,
			"totalPage": totalPage,
		}, nil)
		return nil
	})
}
