package hospitals

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"net/http"
	"strings"

	"hospitofind/internal/api"
	"hospitofind/internal/database"
	"hospitofind/internal/model"
	"hospitofind/internal/store"

	"github.com/labstack/echo/v4"
	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"Name", "Street", "City", "State", "Phone", "Website", "Email", "Type", "Services",
}

func exportRow(h model.Hospital) []string {
	return []string{
		h.Name, h.Street, h.City, h.State,
		h.PhoneNumber, h.Website, h.Email, h.Type,
		strings.Join(h.Services, "; "),
	}
}

// @Summary     Export search results as CSV
// @Tags        hospitals
// @Produce     text/csv
// @Param       address query string false "matches name or street"
// @Param       city    query string false "city"
// @Param       state   query string false "state"
// @Success     200 {string} string "CSV body"
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/export/csv [get]
func ExportCSVHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := exportResults(c, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}

		var buf bytes.Buffer
		w := csv.NewWriter(&buf)
		if err := w.Write(exportHeader); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}
		for _, h := range hs {
			if err := w.Write(exportRow(h)); err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}

		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hospitals.csv"`)
		return c.Blob(http.StatusOK, "text/csv", buf.Bytes())
	}
}

// @Summary     Export search results as an Excel workbook
// @Tags        hospitals
// @Produce     application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Param       address query string false "matches name or street"
// @Param       city    query string false "city"
// @Param       state   query string false "state"
// @Success     200 {string} string "XLSX body"
// @Failure     500 {object} api.ErrorResponse
// @Router      /hospitals/export/xlsx [get]
func ExportXLSXHandler(db database.DB) echo.HandlerFunc {
	return func(c echo.Context) error {
		hs, err := exportResults(c, db)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}

		f := excelize.NewFile()
		defer f.Close()
		const sheet = "Hospitals"
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}
		header := make([]any, len(exportHeader))
		for i, col := range exportHeader {
			header[i] = col
		}
		if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}
		for i, h := range hs {
			row := exportRow(h)
			cells := make([]any, len(row))
			for j, v := range row {
				cells[j] = v
			}
			cell := fmt.Sprintf("A%d", i+2)
			if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
				return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
			}
		}

		var buf bytes.Buffer
		if err := f.Write(&buf); err != nil {
			return c.JSON(http.StatusInternalServerError, api.ErrorResponse{Message: "export failed"})
		}
		c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="hospitals.xlsx"`)
		return c.Blob(http.StatusOK,
			"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
	}
}

func exportResults(c echo.Context, db database.DB) ([]model.Hospital, error) {
	var params api.SearchParams
	if err := c.Bind(&params); err != nil {
		params = api.SearchParams{}
	}
	return searchHospitals(c.Request().Context(), db, store.SearchFilter{
		Address: params.Address,
		City:    params.City,
		State:   params.State,
	})
}
