package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// RunMigrations creates the schema when it does not exist yet. Statements
// are idempotent so the function is safe to run on every startup.
func RunMigrations(db *sql.DB) error {
	migrations := []string{
		createUsuarioTable,
		createRefreshTokensTable,
		createDestinoTable,
		createViajeTable,
		createReservaTable,
		createBoletoTable,
		createInvitadoTable,
		createOpinionTable,
	}

	for i, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i+1, err)
		}
	}

	slog.Info("database schema up to date", "steps", len(migrations))
	return nil
}

const createUsuarioTable = `
CREATE TABLE IF NOT EXISTS usuario (
    id_usuario BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    correo VARCHAR(190) NOT NULL,
    documento VARCHAR(32) NOT NULL DEFAULT '',
    nombre VARCHAR(120) NOT NULL,
    contacto VARCHAR(32) NOT NULL DEFAULT '',
    eps VARCHAR(64) NOT NULL DEFAULT '',
    fecha_nacimiento DATE NULL,
    subtipo ENUM('C','G','A') NOT NULL DEFAULT 'C',
    password_hash VARCHAR(100) NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_usuario_correo_subtipo (correo, subtipo)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createRefreshTokensTable = `
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    user_id BIGINT UNSIGNED NOT NULL,
    token_hash CHAR(64) NOT NULL,
    expires_at DATETIME NOT NULL,
    revoked TINYINT(1) NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_refresh_token_hash (token_hash),
    KEY idx_refresh_user (user_id),
    CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES usuario (id_usuario) ON DELETE CASCADE
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createDestinoTable = `
CREATE TABLE IF NOT EXISTS destino (
    id_destino BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    nombre VARCHAR(120) NOT NULL,
    descripcion TEXT NULL,
    creado_por BIGINT UNSIGNED NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_destino_nombre (nombre),
    CONSTRAINT fk_destino_admin FOREIGN KEY (creado_por) REFERENCES usuario (id_usuario) ON DELETE SET NULL
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createViajeTable = `
CREATE TABLE IF NOT EXISTS viaje (
    id_viaje BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    id_destino BIGINT UNSIGNED NOT NULL,
    origen VARCHAR(120) NOT NULL,
    fecha DATE NOT NULL,
    hora_salida TIME NOT NULL,
    hora_regreso TIME NOT NULL,
    cupo INT NOT NULL,
    precio BIGINT NOT NULL,
    comidas TINYINT(1) NOT NULL DEFAULT 0,
    cancelado TINYINT(1) NOT NULL DEFAULT 0,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_viaje_destino (id_destino),
    KEY idx_viaje_fecha (fecha),
    CONSTRAINT fk_viaje_destino FOREIGN KEY (id_destino) REFERENCES destino (id_destino),
    CONSTRAINT chk_viaje_cupo CHECK (cupo >= 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createReservaTable = `
CREATE TABLE IF NOT EXISTS reserva (
    id_reserva BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    id_usuario BIGINT UNSIGNED NOT NULL,
    id_viaje BIGINT UNSIGNED NOT NULL,
    n_boletas INT NOT NULL,
    total BIGINT NOT NULL,
    vigente TINYINT(1) NOT NULL DEFAULT 1,
    pagado TINYINT(1) NOT NULL DEFAULT 0,
    metodo_pago VARCHAR(32) NULL,
    reembolso BIGINT NOT NULL DEFAULT 0,
    tipo_reembolso ENUM('ninguno','parcial','total') NOT NULL DEFAULT 'ninguno',
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    UNIQUE KEY uq_reserva_usuario_viaje (id_usuario, id_viaje),
    KEY idx_reserva_viaje (id_viaje),
    CONSTRAINT fk_reserva_usuario FOREIGN KEY (id_usuario) REFERENCES usuario (id_usuario),
    CONSTRAINT fk_reserva_viaje FOREIGN KEY (id_viaje) REFERENCES viaje (id_viaje),
    CONSTRAINT chk_reserva_boletas CHECK (n_boletas > 0)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createBoletoTable = `
CREATE TABLE IF NOT EXISTS boleto (
    id_boleto BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    id_usuario BIGINT UNSIGNED NOT NULL,
    id_reserva BIGINT UNSIGNED NOT NULL,
    codigo CHAR(36) NOT NULL,
    fecha_viaje DATE NOT NULL,
    hora_salida TIME NOT NULL,
    activo TINYINT(1) NOT NULL DEFAULT 1,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    UNIQUE KEY uq_boleto_codigo (codigo),
    KEY idx_boleto_reserva (id_reserva),
    CONSTRAINT fk_boleto_usuario FOREIGN KEY (id_usuario) REFERENCES usuario (id_usuario),
    CONSTRAINT fk_boleto_reserva FOREIGN KEY (id_reserva) REFERENCES reserva (id_reserva)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createInvitadoTable = `
CREATE TABLE IF NOT EXISTS invitado (
    id_anfitrion BIGINT UNSIGNED NOT NULL,
    id_invitado BIGINT UNSIGNED NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    PRIMARY KEY (id_anfitrion, id_invitado),
    CONSTRAINT fk_invitado_anfitrion FOREIGN KEY (id_anfitrion) REFERENCES usuario (id_usuario),
    CONSTRAINT fk_invitado_invitado FOREIGN KEY (id_invitado) REFERENCES usuario (id_usuario)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`

const createOpinionTable = `
CREATE TABLE IF NOT EXISTS opinion (
    id_opinion BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
    id_usuario BIGINT UNSIGNED NOT NULL,
    id_destino BIGINT UNSIGNED NOT NULL,
    calificacion TINYINT NOT NULL,
    comentario TEXT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
    KEY idx_opinion_destino (id_destino),
    CONSTRAINT fk_opinion_usuario FOREIGN KEY (id_usuario) REFERENCES usuario (id_usuario),
    CONSTRAINT fk_opinion_destino FOREIGN KEY (id_destino) REFERENCES destino (id_destino),
    CONSTRAINT chk_opinion_calificacion CHECK (calificacion BETWEEN 1 AND 5)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;`
