package compose

import (
	"fmt"
	"os"
	"path/filepath"
)

// WriteDockerfile drops a framework-appropriate Dockerfile into dir so a
// project without one can still go through the image build flow.
func WriteDockerfile(dir string, framework Framework, version, port string) error {
	content := dockerfileContent(framework, version, port)
	return os.WriteFile(filepath.Join(dir, "Dockerfile"), []byte(content), 0644)
}

func dockerfileContent(framework Framework, version, port string) string {
	switch framework {
	case FrameworkLaravel:
		return fmt.Sprintf(`# Generated by DockTop for Laravel (PHP %s)
FROM php:%s-fpm

RUN apt-get update && apt-get install -y git curl libpng-dev libonig-dev libxml2-dev zip unzip
RUN docker-php-ext-install pdo_mysql mbstring exif pcntl bcmath gd
COPY --from=composer:latest /usr/bin/composer /usr/bin/composer

WORKDIR /var/www
COPY . .
RUN composer install

CMD php artisan serve --host=0.0.0.0 --port=%s
EXPOSE %s
`, version, version, port, port)
	case FrameworkNextJS:
		return fmt.Sprintf(`# Generated by DockTop for Next.js (Node %s)
FROM node:%s-alpine AS base

FROM base AS deps
WORKDIR /app
COPY package.json package-lock.json* ./
RUN npm ci

FROM base AS builder
WORKDIR /app
COPY --from=deps /app/node_modules ./node_modules
COPY . .
RUN npm run build

FROM base AS runner
WORKDIR /app
ENV NODE_ENV production
COPY --from=builder /app/public ./public
COPY --from=builder /app/.next/standalone ./
COPY --from=builder /app/.next/static ./.next/static

EXPOSE %s
CMD ["node", "server.js"]
`, version, version, port)
	case FrameworkNuxtJS:
		return fmt.Sprintf(`# Generated by DockTop for Nuxt.js (Node %s)
FROM node:%s-alpine AS base

WORKDIR /app
COPY package.json package-lock.json* ./
RUN npm ci

COPY . .
RUN npm run build

ENV HOST 0.0.0.0
ENV PORT %s
EXPOSE %s
CMD ["npm", "run", "start"]
`, version, version, port, port)
	case FrameworkNode:
		return fmt.Sprintf(`# Generated by DockTop for Node.js (Node %s)
FROM node:%s-alpine

WORKDIR /app
COPY package.json package-lock.json* ./
RUN npm ci

COPY . .

EXPOSE %s
CMD ["npm", "start"]
`, version, version, port)
	case FrameworkPython:
		return fmt.Sprintf(`# Generated by DockTop for Python (Python %s)
FROM python:%s-slim

WORKDIR /app
COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt

COPY . .

EXPOSE %s
CMD ["python", "app.py"]
`, version, version, port)
	case FrameworkDjango:
		return fmt.Sprintf(`# Generated by DockTop for Django (Python %s)
FROM python:%s-slim

WORKDIR /app
COPY requirements.txt .
RUN pip install --no-cache-dir -r requirements.txt

COPY . .

EXPOSE %s
CMD ["python", "manage.py", "runserver", "0.0.0.0:%s"]
`, version, version, port, port)
	case FrameworkGo:
		return fmt.Sprintf(`# Generated by DockTop for Go (Go %s)
FROM golang:%s-alpine

WORKDIR /app
COPY go.mod ./
COPY go.sum ./
RUN go mod download

COPY . .
RUN go build -o /main

EXPOSE %s
CMD ["/main"]
`, version, version, port)
	case FrameworkRust:
		return fmt.Sprintf(`# Generated by DockTop for Rust
FROM rust:%s-alpine as builder
WORKDIR /usr/src/app
COPY . .
RUN cargo install --path .

FROM alpine:latest
COPY --from=builder /usr/local/cargo/bin/app /usr/local/bin/app
EXPOSE %s
CMD ["app"]
`, version, port)
	case FrameworkJava:
		return fmt.Sprintf(`# Generated by DockTop for Java (OpenJDK %s)
FROM openjdk:%s-jdk-alpine

WORKDIR /app
COPY . .
RUN ./mvnw package -DskipTests

EXPOSE %s
CMD ["java", "-jar", "target/app.jar"]
`, version, version, port)
	case FrameworkStatic:
		return `# Generated by DockTop for Static Site
FROM nginx:alpine

COPY . /usr/share/nginx/html

EXPOSE 80
`
	default:
		return fmt.Sprintf("FROM alpine\nWORKDIR /app\nCOPY . .\nEXPOSE %s\nCMD [\"/app/main\"]\n", port)
	}
}
