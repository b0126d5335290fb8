package config

import "time"

type Config struct {
	Web     Web
	Cors    Cors
	DB      DB
	Session Session
	Cart    Cart
	Login   Login
}

type Web struct {
	Address         string        `conf:"default:0.0.0.0:4000"`
	ReadTimeout     time.Duration `conf:"default:5s"`
	WriteTimeout    time.Duration `conf:"default:10s"`
	IdleTimeout     time.Duration `conf:"default:120s"`
	ShutdownTimeout time.Duration `conf:"default:20s"`
}

type Cors struct {
	Origin string `conf:"default:http://localhost:5173"`
}

type DB struct {
	User       string `conf:"default:postgres"`
	Password   string `conf:"default:postgres,mask"`
	Host       string `conf:"default:localhost"`
	Name       string `conf:"default:storefront"`
	DisableTLS bool   `conf:"default:true"`
	Migrate    bool   `conf:"default:true"`
}

type Session struct {
	Lifetime time.Duration `conf:"default:24h"`
}

type Cart struct {
	// SlotKey names the per-visitor entry holding the serialized cart.
	SlotKey string `conf:"default:cartItems"`

	// AddedTTL is how long the "just added" pulse for a product lasts.
	AddedTTL time.Duration `conf:"default:900ms"`
}

type Login struct {
	Burst    int           `conf:"default:5"`
	Interval time.Duration `conf:"default:1s"`
	Expiry   int           `conf:"default:60"`
}
