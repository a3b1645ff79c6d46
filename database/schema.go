package database

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id CHAR(36) PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		email VARCHAR(255) NOT NULL,
		password_hash VARCHAR(255) NOT NULL DEFAULT '',
		google_id VARCHAR(255) NOT NULL DEFAULT '',
		profile_picture VARCHAR(1024) NOT NULL DEFAULT '',
		phone_number VARCHAR(32) NOT NULL DEFAULT '',
		is_verified BOOLEAN NOT NULL DEFAULT FALSE,
		verification_token VARCHAR(64) NOT NULL DEFAULT '',
		reset_password_token VARCHAR(64) NOT NULL DEFAULT '',
		reset_password_expires DATETIME NULL,
		agree_terms BOOLEAN NOT NULL DEFAULT FALSE,
		role VARCHAR(16) NOT NULL DEFAULT 'user',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_users_email (email),
		KEY idx_users_google (google_id),
		KEY idx_users_verification (verification_token),
		KEY idx_users_reset (reset_password_token)
	)`,
	`CREATE TABLE IF NOT EXISTS products (
		id CHAR(36) PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		subject VARCHAR(255) NOT NULL DEFAULT '',
		category VARCHAR(255) NOT NULL DEFAULT '',
		item_condition VARCHAR(64) NOT NULL DEFAULT '',
		class_type VARCHAR(64) NOT NULL DEFAULT '',
		price DECIMAL(12,2) NOT NULL DEFAULT 0,
		author VARCHAR(255) NOT NULL DEFAULT '',
		edition VARCHAR(64) NOT NULL DEFAULT '',
		description TEXT,
		final_price DECIMAL(12,2) NOT NULL DEFAULT 0,
		shipping_charge VARCHAR(64) NOT NULL DEFAULT '',
		seller_id CHAR(36) NOT NULL,
		payment_mode VARCHAR(32) NOT NULL DEFAULT '',
		payment_details JSON,
		images JSON,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_products_seller (seller_id),
		KEY idx_products_created (created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS carts (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_carts_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS cart_items (
		cart_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (cart_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS orders (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		total_amount DECIMAL(12,2) NOT NULL DEFAULT 0,
		shipping_address_id VARCHAR(36) NOT NULL DEFAULT '',
		payment_method VARCHAR(64) NOT NULL DEFAULT '',
		payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
		status VARCHAR(16) NOT NULL DEFAULT 'pending',
		razorpay_order_id VARCHAR(64) NOT NULL DEFAULT '',
		razorpay_payment_id VARCHAR(64) NOT NULL DEFAULT '',
		razorpay_signature VARCHAR(255) NOT NULL DEFAULT '',
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_orders_user (user_id, created_at),
		KEY idx_orders_gateway (razorpay_order_id),
		KEY idx_orders_payment (payment_status, created_at)
	)`,
	`CREATE TABLE IF NOT EXISTS order_items (
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		quantity INT NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (order_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS addresses (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		address_line1 VARCHAR(255) NOT NULL,
		address_line2 VARCHAR(255) NOT NULL DEFAULT '',
		phone_number VARCHAR(32) NOT NULL,
		city VARCHAR(128) NOT NULL,
		state VARCHAR(128) NOT NULL,
		pincode VARCHAR(16) NOT NULL,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		KEY idx_addresses_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlists (
		id CHAR(36) PRIMARY KEY,
		user_id CHAR(36) NOT NULL,
		UNIQUE KEY uq_wishlists_user (user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS wishlist_items (
		wishlist_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		position INT NOT NULL,
		PRIMARY KEY (wishlist_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS seller_payments (
		id CHAR(36) PRIMARY KEY,
		seller_id CHAR(36) NOT NULL,
		order_id CHAR(36) NOT NULL,
		product_id CHAR(36) NOT NULL,
		amount DECIMAL(12,2) NOT NULL,
		payment_method VARCHAR(64) NOT NULL,
		payment_status VARCHAR(16) NOT NULL DEFAULT 'pending',
		processed_by CHAR(36) NOT NULL,
		notes TEXT,
		created_at DATETIME NOT NULL,
		updated_at DATETIME NOT NULL,
		UNIQUE KEY uq_seller_payments_order_product (order_id, product_id),
		KEY idx_seller_payments_seller (seller_id, created_at)
	)`,
}
