// Package analytics 提供统计分析服务
package analytics

import (
	"context"
	"time"

	"github.com/dumeirei/hotel-manager-backend/internal/common/errors"
	"github.com/dumeirei/hotel-manager-backend/internal/common/metrics"
	"github.com/dumeirei/hotel-manager-backend/internal/common/utils"
	"github.com/dumeirei/hotel-manager-backend/internal/models"
	"github.com/dumeirei/hotel-manager-backend/internal/repository"
)

// Service 统计分析服务
// 所有指标都从房间和预订集合实时推导，不落中间表
type Service struct {
	roomRepo    *repository.RoomRepository
	bookingRepo *repository.BookingRepository
}

// NewService 创建统计分析服务
func NewService(roomRepo *repository.RoomRepository, bookingRepo *repository.BookingRepository) *Service {
	return &Service{
		roomRepo:    roomRepo,
		bookingRepo: bookingRepo,
	}
}

// RevenueSummary 营收汇总
type RevenueSummary struct {
	Total   float64 `json:"total"`
	Paid    float64 `json:"paid"`
	Pending float64 `json:"pending"`
}

// RoomStatusSummary 房间状态汇总
type RoomStatusSummary struct {
	Total       int64 `json:"total"`
	Available   int64 `json:"available"`
	Occupied    int64 `json:"occupied"`
	Maintenance int64 `json:"maintenance"`
}

// DashboardSummary 仪表盘汇总
type DashboardSummary struct {
	Rooms          RoomStatusSummary `json:"rooms"`
	BookingsTotal  int64             `json:"bookings_total"`
	TodayCheckIns  int               `json:"today_check_ins"`
	TodayCheckOuts int               `json:"today_check_outs"`
	OccupancyRate  float64           `json:"occupancy_rate"`
	Revenue        RevenueSummary    `json:"revenue"`
}

// OccupancyRate 计算日期区间内的入住率（百分比）
// 对每笔非取消预订，取其与 [start, end) 的重叠部分并向上取整为晚数，
// 求和后除以 房间数 × 区间天数；无房间或区间非法时返回 0
func (s *Service) OccupancyRate(ctx context.Context, start, end time.Time) (float64, error) {
	if !start.Before(end) {
		return 0, nil
	}

	roomCount, err := s.roomRepo.Count(ctx)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}
	if roomCount == 0 {
		return 0, nil
	}

	rangeNights := utils.NightsBetween(start, end)
	if rangeNights <= 0 {
		return 0, nil
	}

	bookings, err := s.bookingRepo.ListInRange(ctx, start, end)
	if err != nil {
		return 0, errors.ErrDatabaseError.WithError(err)
	}

	var occupiedNights int
	for _, b := range bookings {
		cs, ce, ok := utils.ClampRange(b.CheckInDate, b.CheckOutDate, start, end)
		if !ok {
			continue
		}
		occupiedNights += utils.NightsBetween(cs, ce)
	}

	rate := float64(occupiedNights) / (float64(roomCount) * float64(rangeNights)) * 100
	return rate, nil
}

// Revenue 统计营收
// from/to 为空时统计全部预订，否则只统计与区间有重叠的预订；取消的预订不计入
func (s *Service) Revenue(ctx context.Context, from, to *time.Time) (*RevenueSummary, error) {
	var bookings []*models.Booking
	var err error

	if from != nil && to != nil {
		bookings, err = s.bookingRepo.ListInRange(ctx, *from, *to)
	} else {
		bookings, err = s.bookingRepo.ListAll(ctx)
	}
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	summary := &RevenueSummary{}
	for _, b := range bookings {
		if b.Status == models.BookingStatusCancelled {
			continue
		}
		summary.Total += b.TotalCost
		summary.Paid += b.PaidAmount
	}
	summary.Pending = summary.Total - summary.Paid

	return summary, nil
}

// RoomStatusCounts 按状态统计房间数量并刷新指标
func (s *Service) RoomStatusCounts(ctx context.Context) (*RoomStatusSummary, error) {
	counts, err := s.roomRepo.CountByStatus(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	summary := &RoomStatusSummary{
		Available:   counts[models.RoomStatusAvailable],
		Occupied:    counts[models.RoomStatusOccupied],
		Maintenance: counts[models.RoomStatusMaintenance],
	}
	summary.Total = summary.Available + summary.Occupied + summary.Maintenance

	m := metrics.GetMetrics()
	for status, count := range counts {
		m.SetRoomsByStatus(status, float64(count))
	}

	return summary, nil
}

// Dashboard 生成仪表盘汇总
// 入住率和营收按传入区间计算，区间缺省为本月
func (s *Service) Dashboard(ctx context.Context, from, to *time.Time) (*DashboardSummary, error) {
	start, end := monthWindow(time.Now())
	if from != nil && to != nil {
		start, end = *from, *to
	}

	rooms, err := s.RoomStatusCounts(ctx)
	if err != nil {
		return nil, err
	}

	bookingsTotal, err := s.bookingRepo.Count(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	checkIns, err := s.bookingRepo.ListTodayCheckIns(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}
	checkOuts, err := s.bookingRepo.ListTodayCheckOuts(ctx)
	if err != nil {
		return nil, errors.ErrDatabaseError.WithError(err)
	}

	rate, err := s.OccupancyRate(ctx, start, end)
	if err != nil {
		return nil, err
	}

	revenue, err := s.Revenue(ctx, &start, &end)
	if err != nil {
		return nil, err
	}

	return &DashboardSummary{
		Rooms:          *rooms,
		BookingsTotal:  bookingsTotal,
		TodayCheckIns:  len(checkIns),
		TodayCheckOuts: len(checkOuts),
		OccupancyRate:  rate,
		Revenue:        *revenue,
	}, nil
}

// monthWindow 返回所在自然月的 [月初, 下月初) 区间
func monthWindow(t time.Time) (time.Time, time.Time) {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return start, start.AddDate(0, 1, 0)
}
