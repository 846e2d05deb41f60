package controllers

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tealeg/xlsx"

	"github.com/astroveda/connect-backend/config"
	"github.com/astroveda/connect-backend/models"
	"github.com/astroveda/connect-backend/utils"
)

// Admin: Download settlement report as Excel
func DownloadSettlementReportExcel(c *gin.Context) {
	utils.LogInfo("DownloadSettlementReportExcel called")

	period := c.DefaultQuery("period", "week")
	utils.LogDebug("Generating settlement report for period: %s", period)

	now := time.Now()
	var startDate, endDate time.Time

	switch period {
	case "day":
		startDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
	case "week":
		endDate = time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 999999999, now.Location())
		startDate = endDate.AddDate(0, 0, -6)
		startDate = time.Date(startDate.Year(), startDate.Month(), startDate.Day(), 0, 0, 0, 0, startDate.Location())
	case "month":
		startDate = now.AddDate(0, 0, -30).Truncate(24 * time.Hour)
		endDate = now.Add(24 * time.Hour)
	default:
		utils.LogError("Invalid period specified: %s", period)
		utils.BadRequest(c, "Invalid period", "Period must be day, week, or month")
		return
	}

	var orders []models.ProductOrder
	if err := config.DB.Where("created_at >= ? AND created_at <= ?", startDate, endDate).
		Order("created_at DESC").
		Find(&orders).Error; err != nil {
		utils.LogError("Failed to fetch orders: %v", err)
		utils.InternalServerError(c, "Failed to fetch orders", err.Error())
		return
	}
	utils.LogDebug("Retrieved %d orders for settlement report", len(orders))

	var summary struct {
		TotalOrders   int
		TotalRevenue  float64
		TotalFees     float64
		TotalEarnings float64
		Settled       int
		Pending       int
	}
	for _, order := range orders {
		summary.TotalOrders++
		summary.TotalRevenue += order.TotalAmount
		summary.TotalFees += order.PlatformFeeAmount
		summary.TotalEarnings += order.AstrologerEarningAmount
		if order.Status == models.OrderStatusSettled {
			summary.Settled++
		} else {
			summary.Pending++
		}
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Settlement Report")
	if err != nil {
		utils.LogError("Failed to create Excel sheet: %v", err)
		utils.InternalServerError(c, "Failed to create Excel sheet", err.Error())
		return
	}

	headers := []string{
		"Order ID", "User ID", "Astrologer ID", "Product ID", "Date",
		"Quantity", "Total Amount", "Platform Fee", "Astrologer Earning",
		"Status", "Settlement Due", "Settled At",
	}
	headerRow := sheet.AddRow()
	for _, h := range headers {
		cell := headerRow.AddCell()
		cell.SetString(h)
		style := xlsx.NewStyle()
		font := xlsx.DefaultFont()
		font.Bold = true
		style.Font = *font
		cell.SetStyle(style)
	}

	for _, order := range orders {
		row := sheet.AddRow()
		row.AddCell().SetInt(int(order.ID))
		row.AddCell().SetInt(int(order.UserID))
		row.AddCell().SetInt(int(order.AstrologerID))
		row.AddCell().SetInt(int(order.ProductID))
		row.AddCell().SetString(order.CreatedAt.Format("2006-01-02 15:04"))
		row.AddCell().SetInt(order.Quantity)
		row.AddCell().SetFloat(order.TotalAmount)
		row.AddCell().SetFloat(order.PlatformFeeAmount)
		row.AddCell().SetFloat(order.AstrologerEarningAmount)
		row.AddCell().SetString(order.Status)
		row.AddCell().SetString(order.SettlementDueDate.Format("2006-01-02"))
		if order.SettledAt != nil {
			row.AddCell().SetString(order.SettledAt.Format("2006-01-02 15:04"))
		} else {
			row.AddCell().SetString("-")
		}
	}

	sheet.AddRow() // spacing

	summaryRow := sheet.AddRow()
	summaryRow.AddCell().SetString("Summary")
	style := xlsx.NewStyle()
	font := xlsx.DefaultFont()
	font.Bold = true
	style.Font = *font
	summaryRow.Cells[0].SetStyle(style)

	summaryData := [][]string{
		{"Total Orders", fmt.Sprintf("%d", summary.TotalOrders)},
		{"Total Revenue", fmt.Sprintf("%.2f", summary.TotalRevenue)},
		{"Platform Fees", fmt.Sprintf("%.2f", summary.TotalFees)},
		{"Astrologer Earnings", fmt.Sprintf("%.2f", summary.TotalEarnings)},
		{"Settled Orders", fmt.Sprintf("%d", summary.Settled)},
		{"Pending Orders", fmt.Sprintf("%d", summary.Pending)},
	}
	for _, data := range summaryData {
		row := sheet.AddRow()
		row.AddCell().SetString(data[0])
		row.AddCell().SetString(data[1])
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=settlement_report_%s.xlsx", period))
	if err := file.Write(c.Writer); err != nil {
		utils.LogError("Failed to write Excel file: %v", err)
		utils.InternalServerError(c, "Failed to write Excel file", err.Error())
		return
	}
	utils.LogInfo("Successfully generated settlement report for period %s", period)
}
