package report

import (
	"fmt"
	"time"

	"voyage-backend/internal/auth"
	"voyage-backend/internal/database"
	"voyage-backend/internal/models"
	"voyage-backend/internal/policy"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// MonthlyExportHandler writes the caller's scoped bookings for one month to
// an .xlsx workbook. Route access is restricted to DIRECTOR_SITE and up.
func MonthlyExportHandler(az *policy.Authorizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := auth.CurrentUser(c)
		if err != nil {
			return err
		}

		monthParam := c.Query("month")
		var monthStart time.Time
		if monthParam == "" {
			now := az.Now()
			monthStart = time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		} else {
			monthStart, err = time.Parse("2006-01", monthParam)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "month must be YYYY-MM")
			}
		}
		monthEnd := monthStart.AddDate(0, 1, 0)

		var bookings []models.Booking
		err = database.DB.
			Scopes(policy.ScopeBookings(user)).
			Where("created_at >= ? AND created_at < ?", monthStart, monthEnd).
			Order("created_at ASC").
			Find(&bookings).Error
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not load bookings")
		}

		f := excelize.NewFile()
		defer f.Close()

		sheet := "Bookings"
		f.SetSheetName(f.GetSheetName(0), sheet)

		headers := []string{"Reference", "Status", "Client ID", "Amount (DZD)", "Travel Date", "Travelers", "Site ID", "Created At"}
		for i, h := range headers {
			cell, _ := excelize.CoordinatesToCellName(i+1, 1)
			f.SetCellValue(sheet, cell, h)
		}

		var totalAmount int64
		for row, b := range bookings {
			travel := ""
			if b.TravelDate != nil {
				travel = b.TravelDate.Format("2006-01-02")
			}
			values := []interface{}{
				b.Reference,
				string(b.Status),
				b.ClientID,
				b.TotalAmount,
				travel,
				b.Travelers,
				b.CreatedAtSiteID,
				b.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for col, v := range values {
				cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
				f.SetCellValue(sheet, cell, v)
			}
			totalAmount += b.TotalAmount
		}

		totalRow := len(bookings) + 3
		cell, _ := excelize.CoordinatesToCellName(1, totalRow)
		f.SetCellValue(sheet, cell, "TOTAL")
		cell, _ = excelize.CoordinatesToCellName(4, totalRow)
		f.SetCellValue(sheet, cell, totalAmount)

		filename := fmt.Sprintf("bookings-%s.xlsx", monthStart.Format("2006-01"))
		c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename=%q`, filename))

		buf, err := f.WriteToBuffer()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "could not build the report")
		}
		return c.Send(buf.Bytes())
	}
}
