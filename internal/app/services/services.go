package services

// Services defined in this package:
// - PartnerService: partner registration and maintenance
// - CourseService: courses and their runs
// - SeatService: seats on course runs
// - ProgramService: program types and programs
// - CurriculumService: curricula and course memberships
// - WaffleService: database-backed feature switches with a Redis read-through cache
