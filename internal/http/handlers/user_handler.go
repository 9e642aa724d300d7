package handlers

import (
	"shopease/internal/domain"
	applog "shopease/internal/log"
	"shopease/internal/repos"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	Users *repos.UserRepo
}

// GET /api/user/addresses
func (h *UserHandler) Addresses(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}
	list, err := h.Users.Addresses(u.ID)
	if err != nil {
		applog.Error(c, "user.addresses.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not load addresses")
	}
	return c.JSON(list)
}

type addressReq struct {
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Street string `json:"street"`
	City   string `json:"city"`
	State  string `json:"state"`
	Zip    string `json:"zip"`
}

// POST /api/user/address/add
func (h *UserHandler) AddAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}

	var req addressReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Users.AddAddress(domain.Address{
		UserID: u.ID,
		Name:   req.Name,
		Phone:  req.Phone,
		Street: req.Street,
		City:   req.City,
		State:  req.State,
		Zip:    req.Zip,
	}); err != nil {
		applog.Error(c, "user.address.add.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not save address")
	}

	list, err := h.Users.Addresses(u.ID)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, "could not load addresses")
	}
	return c.JSON(list)
}

type addressDeleteReq struct {
	AddressID int64 `json:"addressId"`
}

// POST /api/user/address/delete
func (h *UserHandler) DeleteAddress(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}

	var req addressDeleteReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Users.DeleteAddress(u.ID, req.AddressID); err != nil {
		applog.Error(c, "user.address.delete.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not delete address")
	}

	list, err := h.Users.Addresses(u.ID)
	if err != nil {
		return jsonErr(c, fiber.StatusInternalServerError, "could not load addresses")
	}
	return c.JSON(list)
}

type settingsReq struct {
	Phone    *string `json:"phone"`
	DarkMode *bool   `json:"darkMode"`
}

// POST /api/user/settings — only supplied fields change.
func (h *UserHandler) Settings(c *fiber.Ctx) error {
	u := currentUser(c)
	if u == nil {
		return jsonErr(c, fiber.StatusUnauthorized, "not-authenticated")
	}

	var req settingsReq
	if err := c.BodyParser(&req); err != nil {
		return jsonErr(c, fiber.StatusBadRequest, "invalid body")
	}
	if err := h.Users.UpdateSettings(u.ID, req.Phone, req.DarkMode); err != nil {
		applog.Error(c, "user.settings.fail", err, nil)
		return jsonErr(c, fiber.StatusInternalServerError, "could not save settings")
	}
	return c.JSON(fiber.Map{"ok": true})
}
