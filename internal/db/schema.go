package db

import "database/sql"

// EnsureSchema creates the tables this service expects. Statements are
// idempotent so repeated startups are safe.
func EnsureSchema(conn *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			first_name VARCHAR(100) NOT NULL,
			last_name VARCHAR(100) NOT NULL,
			email VARCHAR(255) NOT NULL,
			phone VARCHAR(50) NULL,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_email (email)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS permits (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			permit_number VARCHAR(100) NOT NULL,
			holder_name VARCHAR(255) NOT NULL,
			vehicle_type VARCHAR(20) NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			issued_date DATETIME NOT NULL,
			expiry_date DATETIME NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_permit_number (permit_number),
			KEY idx_permit_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS routes (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			route_number VARCHAR(50) NOT NULL,
			start_location VARCHAR(255) NOT NULL,
			end_location VARCHAR(255) NOT NULL,
			distance DOUBLE NOT NULL,
			fare DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_route_number (route_number),
			KEY idx_route_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS route_stops (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			route_id BIGINT NOT NULL,
			position INT NOT NULL,
			name VARCHAR(255) NOT NULL,
			distance DOUBLE NOT NULL,
			time_from_start VARCHAR(20) NOT NULL,
			KEY idx_route_stops (route_id, position)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS route_schedules (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			route_id BIGINT NOT NULL,
			departure_time VARCHAR(20) NOT NULL DEFAULT '',
			arrival_time VARCHAR(20) NOT NULL DEFAULT '',
			frequency INT NOT NULL DEFAULT 0,
			days_operating VARCHAR(255) NOT NULL DEFAULT '',
			KEY idx_route_schedules (route_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS buses (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			registration_number VARCHAR(50) NOT NULL,
			permit_id BIGINT NOT NULL,
			capacity INT NOT NULL,
			manufacturer VARCHAR(100) NOT NULL,
			model VARCHAR(100) NULL,
			year_of_manufacture INT NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'active',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_registration (registration_number),
			KEY idx_bus_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bus_routes (
			bus_id BIGINT NOT NULL,
			route_id BIGINT NOT NULL,
			PRIMARY KEY (bus_id, route_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS seat_maps (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			bus_id BIGINT NOT NULL,
			total_seats INT NOT NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			UNIQUE KEY uniq_seat_map_bus (bus_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS seat_map_seats (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			seat_map_id BIGINT NOT NULL,
			position INT NOT NULL,
			seat_number VARCHAR(20) NOT NULL,
			row_no INT NOT NULL,
			col_no INT NOT NULL,
			seat_type VARCHAR(20) NOT NULL DEFAULT 'regular',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			UNIQUE KEY uniq_map_seat (seat_map_id, seat_number),
			KEY idx_seat_map (seat_map_id, position)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS trips (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			route_id BIGINT NOT NULL,
			bus_id BIGINT NOT NULL,
			departure_date DATETIME NOT NULL,
			arrival_date DATETIME NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'scheduled',
			available_seats INT NOT NULL,
			payment_required TINYINT(1) NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_trip_bus_departure (bus_id, departure_date),
			KEY idx_trip_route_departure (route_id, departure_date),
			KEY idx_trip_status (status)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS trip_stops (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_id BIGINT NOT NULL,
			position INT NOT NULL,
			stop_name VARCHAR(255) NOT NULL,
			arrival_time DATETIME NOT NULL,
			departure_time DATETIME NOT NULL,
			fare_from_start DOUBLE NOT NULL,
			KEY idx_trip_stops (trip_id, position)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			trip_id BIGINT NOT NULL,
			user_id BIGINT NOT NULL,
			from_stop VARCHAR(255) NOT NULL,
			to_stop VARCHAR(255) NOT NULL,
			booking_date DATETIME NOT NULL,
			total_fare DOUBLE NOT NULL,
			status VARCHAR(20) NOT NULL DEFAULT 'pending',
			payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
			amount_paid DOUBLE NOT NULL DEFAULT 0,
			payment_method VARCHAR(50) NOT NULL DEFAULT '',
			transaction_id VARCHAR(100) NOT NULL DEFAULT '',
			payment_date DATETIME NULL,
			remaining_amount DOUBLE NOT NULL DEFAULT 0,
			expiry_date DATETIME NULL,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			KEY idx_booking_trip_status (trip_id, status),
			KEY idx_booking_user_status (user_id, status),
			KEY idx_booking_date (booking_date)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS booking_seats (
			id BIGINT AUTO_INCREMENT PRIMARY KEY,
			booking_id BIGINT NOT NULL,
			seat_id BIGINT NOT NULL,
			seat_number VARCHAR(20) NOT NULL,
			UNIQUE KEY uniq_booking_seat (booking_id, seat_id),
			KEY idx_booking_seats (booking_id)
		) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, stmt := range stmts {
		if _, err := conn.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}
