package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED"  // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 인가/권한 (AUTHZ_) ====================
	AuthzForbidden = "AUTHZ_FORBIDDEN"  // 접근 권한 없음
	AuthzOwnerOnly = "AUTHZ_OWNER_ONLY" // 작성자만 가능

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID
	ValidationRequired     = "VALIDATION_REQUIRED"      // 필수 항목

	// ==================== 리소스 (RESOURCE_) ====================
	MemberNotFound  = "MEMBER_NOT_FOUND"  // 회원 없음
	ProductNotFound = "PRODUCT_NOT_FOUND" // 상품 없음

	// ==================== 리뷰 (REVIEW_) ====================
	ReviewNotFound         = "REVIEW_NOT_FOUND"          // 리뷰 없음
	ReviewAlreadyExists    = "REVIEW_ALREADY_EXISTS"     // 이미 리뷰 작성함
	ReviewFollowUpNotFound = "REVIEW_FOLLOWUP_NOT_FOUND" // 추가 리뷰 없음
	ReviewFollowUpCooldown = "REVIEW_FOLLOWUP_COOLDOWN"  // 한 달 후 작성 가능
	ReviewFollowUpEnded    = "REVIEW_FOLLOWUP_ENDED"     // 이미 종료된 리뷰
	ReviewAlreadyUnliked   = "REVIEW_ALREADY_UNLIKED"    // 이미 좋아요 취소됨

	// ==================== 업로드 (UPLOAD_) ====================
	UploadInvalidFileType = "UPLOAD_INVALID_FILE_TYPE" // 잘못된 파일 형식
	UploadFileTooLarge    = "UPLOAD_FILE_TOO_LARGE"    // 파일 너무 큼
	UploadFailed          = "UPLOAD_FAILED"            // 업로드 실패

	// ==================== 내부 오류 (INTERNAL_) ====================
	InternalServerError   = "INTERNAL_SERVER_ERROR"   // 서버 오류
	InternalDatabaseError = "INTERNAL_DATABASE_ERROR" // DB 오류
)
